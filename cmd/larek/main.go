package main

import (
	"context"
	"time"

	"github.com/niksmo/web-larek/config"
	"github.com/niksmo/web-larek/internal/app"
	"github.com/niksmo/web-larek/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	larekService := app.New(sigCtx, cfg)

	larekService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	larekService.Close(ctx)
}
