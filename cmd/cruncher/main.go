package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"number-cruncher/internal/auth"
	"number-cruncher/internal/config"
	"number-cruncher/internal/database"
	"number-cruncher/internal/facts"
	"number-cruncher/internal/handlers"
	"number-cruncher/internal/metrics"
	"number-cruncher/internal/realtime"
	"number-cruncher/internal/routes"
	"number-cruncher/internal/scheduler"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cruncher",
	Short: "cruncher - eats even number facts, spits out odd ones",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the go flag set cobra already parsed
		return flag.CommandLine.Parse(nil)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cruncher HTTP API (and crunch on a schedule if configured)",
	RunE:  runServe,
}

var crunchCmd = &cobra.Command{
	Use:   "crunch",
	Short: "Run crunch cycles once from the command line and print the tummy",
	RunE:  runCrunch,
}

var (
	endpointFlag string
	capacityFlag int
	listenFlag   string
	scheduleFlag string
	timesFlag    int
)

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "number trivia endpoint (overrides CRUNCHER_ENDPOINT)")
	rootCmd.PersistentFlags().IntVar(&capacityFlag, "capacity", 0, "tummy capacity (overrides CRUNCHER_CAPACITY)")
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "listen address (overrides CRUNCHER_LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&scheduleFlag, "schedule", "", `cron schedule, e.g. "@every 30s" (overrides CRUNCHER_SCHEDULE)`)
	crunchCmd.Flags().IntVarP(&timesFlag, "times", "n", 1, "number of crunch cycles")
	rootCmd.AddCommand(serveCmd, crunchCmd)
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies command line overrides on top of the environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
	if capacityFlag != 0 {
		cfg.Capacity = capacityFlag
	}
	if listenFlag != "" {
		cfg.ListenAddr = listenFlag
	}
	if scheduleFlag != "" {
		cfg.Schedule = scheduleFlag
	}
	return cfg, cfg.Validate()
}

func runCrunch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if timesFlag < 1 {
		return errors.New("--times must be at least 1")
	}

	c, err := facts.NewCruncher(cfg.Capacity, cfg.Facts())
	if err != nil {
		return fmt.Errorf("create cruncher: %w", err)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < timesFlag; i++ {
		status, err := c.Crunch(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "%d: %v\n", i+1, err)
			continue
		}
		fmt.Fprintf(out, "%d: %s\n", i+1, status.Exclaim())
	}

	fmt.Fprintf(out, "Tummy (%d/%d):\n", len(c.Tummy()), c.Capacity())
	for _, f := range c.Tummy() {
		fmt.Fprintf(out, "  %s\n", f.Fact)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM cancel ctx and start a clean shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth.Configure(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	db, err := database.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	audit := database.NewAuditStore(db)
	m := metrics.New()
	hub := realtime.NewHub()
	go hub.Run(ctx)

	c, err := facts.NewCruncher(cfg.Capacity, cfg.Facts(),
		facts.WithConcurrencySafeTummy(),
		facts.WithLogSink(audit),
		facts.WithLogSink(m),
		facts.WithObserver(m.Observe),
		facts.WithObserver(hub.Observe),
	)
	if err != nil {
		return fmt.Errorf("create cruncher: %w", err)
	}
	svc := facts.NewSyncCruncher(c)

	if cfg.Schedule != "" {
		sched, err := scheduler.New(cfg.Schedule, svc, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	router := routes.SetupRoutes(&handlers.Handler{
		Cruncher:     svc,
		Audit:        audit,
		Hub:          hub,
		OperatorHash: cfg.OperatorHash,
	}, m.Handler())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	glog.Infof("cruncher listening on %s (endpoint=%s capacity=%d)", cfg.ListenAddr, cfg.Endpoint, cfg.Capacity)
	glog.Info("API endpoints:")
	glog.Info("  POST   /api/login")
	glog.Info("  POST   /api/crunch")
	glog.Info("  GET    /api/tummy")
	glog.Info("  GET    /api/log")
	glog.Info("  GET    /api/audit")
	glog.Info("  GET    /api/ws")
	glog.Info("  GET    /metrics")
	glog.Info("  GET    /health")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		glog.Warning("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
