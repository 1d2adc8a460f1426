package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/web-larek/config"
	"github.com/niksmo/web-larek/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	deletePolicy      = "delete"
	compactPolicy     = "compact"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	brk := cfg.Telemetry.Broker

	cl := adminClient(brk.SeedBrokers)
	defer cl.Close()

	start := time.Now()
	fmt.Println("initializing session telemetry topics...")

	// the event stream keeps raw session events
	err := createTopics(
		sigCtx, cl, deletePolicy, brk.Topics.SessionEvents,
	)
	if err != nil {
		printFail(err)
		return
	}

	// the stats group table is log-compacted per event name
	err = createTopics(
		sigCtx, cl, compactPolicy,
		statsGroupTable(brk.Consumers.EventStatsGroup),
	)
	if err != nil {
		printFail(err)
		return
	}

	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func adminClient(seedBrokers []string) *kadm.Client {
	cl, err := kadm.NewOptClient(
		kgo.SeedBrokers(seedBrokers...),
	)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func createTopics(
	ctx context.Context, cl *kadm.Client, cleanupPolicy string, topics ...string,
) error {
	minISR := "1"
	topicConfig := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}

	responses, err := cl.CreateTopics(
		ctx, partitions, replicationFactor, topicConfig, topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
				continue
			}
			errs = append(errs, res.Err)
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}

func statsGroupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
