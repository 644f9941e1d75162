package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"diderot/internal/application"
	"diderot/internal/logging"
	"diderot/internal/model"
	"diderot/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Diderot Digest Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  LLM_PROVIDER          Model provider: openai, anthropic or gemini (default: openai)\n")
		fmt.Printf("  OPENAI_API_KEY        OpenAI API key (required with LLM_PROVIDER=openai)\n")
		fmt.Printf("  REPORT_STORE          Report store: file, gcs, postgres, redis or memory (default: file)\n")
		fmt.Printf("  GENERATE_SCHEDULE     Cron schedule for daily generation (default: 0 6 * * *)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Diderot Digest Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx)
	if err != nil {
		logging.Log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	log := logging.WithComponent("server")

	router := server.NewRouter(app.Handler, server.Options{
		AuthToken:      app.Config.APIAuthToken,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Daily generation on the configured schedule.
	c := cron.New()
	_, err = c.AddFunc(app.Config.GenerateSchedule, func() {
		date := time.Now().UTC().Format(model.DateLayout)
		log.WithField("date", date).Info("scheduled generation starting")
		if _, err := app.Service.DailyDigest(ctx, date, false); err != nil {
			log.WithField("date", date).WithField("error", err.Error()).Error("scheduled generation failed")
		} else {
			log.WithField("date", date).Info("scheduled generation completed")
		}
	})
	if err != nil {
		logging.Log.Fatalf("Failed to schedule generation: %v", err)
	}
	c.Start()
	defer c.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("addr", httpServer.Addr).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Info("shutting down server")

	cancel()
	c.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Error("server shutdown error")
	}

	log.Info("server stopped")
}
