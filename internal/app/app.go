package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/web-larek/config"
	"github.com/niksmo/web-larek/internal/adapter/httphandler"
	"github.com/niksmo/web-larek/internal/adapter/kafka"
	"github.com/niksmo/web-larek/internal/adapter/shopapi"
	"github.com/niksmo/web-larek/internal/adapter/storage"
	"github.com/niksmo/web-larek/internal/core/checkout"
	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/service"
	"github.com/niksmo/web-larek/internal/core/state"
	"github.com/niksmo/web-larek/pkg/bus"
	"github.com/niksmo/web-larek/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type telemetry struct {
	recorder  *service.Recorder
	consumer  *kafka.SessionEventsConsumer
	statsProc *kafka.EventStatsProcessor
	sqldb     storage.SQLDB
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	bus        *bus.Bus
	cart       *service.Cart
	httpServer httphandler.HTTPServer
	telemetry  *telemetry
}

func New(context context.Context, config config.Config) *App {
	app := &App{ctx: context, cfg: config}

	app.initLogger()
	app.initCore()
	app.initTelemetry()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCore() {
	b := bus.New()
	store := state.NewStore(b, domain.AppState{})
	catalog := state.NewCatalog(store)
	basket := state.NewBasket(store, catalog)
	flow := checkout.NewFlow(b, store, basket)

	shopClient := shopapi.New(
		app.cfg.ShopAPI.BaseURL, app.cfg.ShopAPI.CDNURL,
	)

	cart := service.NewCart(
		app.ctx, b, store, catalog, basket, flow, shopClient, shopClient,
	)
	cart.Attach()

	app.bus = b
	app.cart = cart
}

func (app *App) initTelemetry() {
	const op = "App.initTelemetry"

	if !app.cfg.Telemetry.Enabled {
		slog.Info("session telemetry is disabled")
		return
	}

	ctx := app.ctx
	brk := app.cfg.Telemetry.Broker

	srClient, err := sr.NewClient(sr.URLs(brk.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	sessionEventSS := brk.Topics.SessionEvents + "-value"
	sessionEventSerde, err := schema.NewSerdeSessionEventV1(
		ctx,
		schema.SubjectOpt(sessionEventSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewSessionEventsProducer(
		kafka.ProducerClientOpt(ctx, brk.SeedBrokers, brk.Topics.SessionEvents),
		kafka.ProducerEncoderOpt(sessionEventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	recorder := service.NewRecorder(app.bus, producer)
	recorder.Attach()

	sqldb, err := storage.NewSQLDB(ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	saver := service.NewTelemetry(
		storage.NewSessionEventsRepository(sqldb),
	)

	consumer, err := kafka.NewSessionEventsConsumer(
		kafka.ConsumerClientOpt(
			brk.SeedBrokers,
			brk.Topics.SessionEvents,
			brk.Consumers.SessionEventsGroup,
		),
		kafka.ConsumerDecoderOpt(sessionEventSerde),
		kafka.ConsumerSaverOpt(saver),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	statsProc, err := kafka.NewEventStatsProc(
		brk.SeedBrokers,
		brk.Topics.SessionEvents,
		brk.Consumers.EventStatsGroup,
		sessionEventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.telemetry = &telemetry{
		recorder:  recorder,
		consumer:  consumer,
		statsProc: statsProc,
		sqldb:     sqldb,
	}
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCart(mux, app.bus, app.cart)

	handler := httphandler.AllowJSON(mux)
	httpServer := httphandler.NewHTTPServer(addr, handler)
	app.httpServer = httpServer
}

func (app *App) Run(stopFn context.CancelFunc) {
	const op = "App.Run"
	log := slog.With("op", op)

	go app.httpServer.Run(stopFn)

	go func() {
		if err := app.cart.LoadCatalog(app.ctx); err != nil {
			log.Error("failed to load catalog", "err", err)
		}
	}()

	if app.telemetry != nil {
		go app.telemetry.recorder.Run(app.ctx)
		go app.telemetry.consumer.Run(app.ctx)

		var wg sync.WaitGroup
		wg.Add(1)
		go app.telemetry.statsProc.Run(app.ctx, stopFn, &wg)
		wg.Wait()
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.telemetry != nil {
		app.telemetry.recorder.Close()
		app.telemetry.consumer.Close()
		app.telemetry.statsProc.Close()
		app.telemetry.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
