package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/allsafeASM/portgroup/internal/app"
	"github.com/allsafeASM/portgroup/internal/config"
	"github.com/projectdiscovery/gologger"
)

func main() {
	options, err := config.ParseOptions(os.Args[1:])
	if err != nil {
		gologger.Fatal().Msgf("Could not parse options: %v", err)
	}

	// Load configuration first
	cfg := config.Load()

	application, err := app.NewApplication(cfg, options, os.Stdout)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	// Cancel pending blob transfers on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := application.Run(ctx)
	if err != nil {
		stop()
		gologger.Fatal().Msgf("%v", err)
	}
	gologger.Debug().Msgf("Run finished: %s", summary)
}
