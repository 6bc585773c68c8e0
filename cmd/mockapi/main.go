package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/mockapi"
	"github.com/wsafety/desk/pkg/utils/logging"
)

var (
	addr       string
	password   string
	signingKey string
	logDir     string
	seed       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mockapi",
		Short: "In-memory stand-in for the W-Safety verification and dispatch services",
		Long: `Serves the admin verification and volunteer dispatch endpoints from memory,
so the desk CLI can be exercised without the real backend.

With --seed a few volunteers and dispatches are loaded and a volunteer token is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	rootCmd.Flags().StringVar(&password, "password", "secret", "Admin password")
	rootCmd.Flags().StringVar(&signingKey, "signing-key", "", "HMAC key for volunteer tokens (built-in default when empty)")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "logs", "Directory for the log file")
	rootCmd.Flags().BoolVar(&seed, "seed", false, "Load demo volunteers and dispatches")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger, err := logging.InitLogger("mockapi", logDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := []mockapi.Option{
		mockapi.WithAdminPassword(password),
		mockapi.WithLogger(logger),
	}
	if signingKey != "" {
		opts = append(opts, mockapi.WithSigningKey(signingKey))
	}
	backend := mockapi.New(opts...)

	if seed {
		mockapi.SeedDemo(backend)
		token, err := backend.IssueToken(mockapi.DemoSubject, "VOLUNTEER")
		if err != nil {
			return err
		}
		logger.Info("Seeded demo data", zap.String("subject", mockapi.DemoSubject))
		fmt.Printf("Demo volunteer token (store it with 'desk setToken'):\n%s\n", token)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
