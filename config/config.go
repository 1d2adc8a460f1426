package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "LAREK_CONFIG_FILE"

type consumers struct {
	SessionEventsGroup string `mapstructure:"session_events_group"`
	EventStatsGroup    string `mapstructure:"event_stats_group"`
}

type topics struct {
	SessionEvents string `mapstructure:"session_events"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type telemetry struct {
	Enabled bool   `mapstructure:"enabled"`
	Broker  broker `mapstructure:"broker"`
}

type shopAPI struct {
	BaseURL string `mapstructure:"base_url"`
	CDNURL  string `mapstructure:"cdn_url"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SQLDB          string     `mapstructure:"sql_db"`
	ShopAPI        shopAPI    `mapstructure:"shop_api"`
	Telemetry      telemetry  `mapstructure:"telemetry"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	ShopAPI:
	BaseURL=%q
	CDNURL=%q

	Telemetry:
	Enabled=%v
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		SessionEvents=%q
	Consumers:
		SessionEventsGroup=%q
		EventStatsGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB,
		c.ShopAPI.BaseURL,
		c.ShopAPI.CDNURL,
		c.Telemetry.Enabled,
		c.Telemetry.Broker.SeedBrokers,
		c.Telemetry.Broker.SchemaRegistryURLs,
		c.Telemetry.Broker.Topics.SessionEvents,
		c.Telemetry.Broker.Consumers.SessionEventsGroup,
		c.Telemetry.Broker.Consumers.EventStatsGroup,
	)
}
