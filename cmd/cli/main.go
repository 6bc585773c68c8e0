package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wsafety/desk/cmd/cli/commands"
	"github.com/wsafety/desk/internal/config"
	"github.com/wsafety/desk/pkg/clients/apiclient"
	"github.com/wsafety/desk/pkg/core/dispatch"
	"github.com/wsafety/desk/pkg/core/identity"
	"github.com/wsafety/desk/pkg/core/metrics"
	"github.com/wsafety/desk/pkg/core/notify"
	"github.com/wsafety/desk/pkg/core/verification"
	"github.com/wsafety/desk/pkg/tokenstore"
	"github.com/wsafety/desk/pkg/utils/logging"
)

var (
	env        string
	metricsSrv *metricsServer
)

var app = &commands.AppContext{Ctx: context.Background(), Out: os.Stdout}

func main() {
	rootCmd := &cobra.Command{
		Use:   "desk",
		Short: "W-Safety desk - volunteer verification and dispatch tracking",
		Long: `A CLI for the W-Safety incident platform: admins review volunteers awaiting verification,
volunteers track and update the complaints dispatched to them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if metricsSrv != nil {
				metricsSrv.shutdown()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	commands.Register(rootCmd, app, os.Stdin)

	if err := rootCmd.Execute(); err != nil {
		if !commands.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// initApp sets up config, logger, clients and the workflow controllers
func initApp() error {
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	// Initialize logger. Full-screen commands silence the console level.
	consoleLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	app.ConsoleLevel = &consoleLevel
	app.Logger, err = logging.InitLogger(env, cfg.LogDir, logging.WithConsoleLevel(consoleLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Initialize token store
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return fmt.Errorf("failed to resolve token file: %w", err)
	}
	app.Tokens = tokenstore.New(tokenPath, cfg.TokenKey)
	app.Logger.Debug("Token store initialized", zap.String("path", tokenPath))

	// Initialize API client
	app.Client = apiclient.New(cfg.VerificationBaseURL,
		apiclient.WithDispatchBaseURL(cfg.DispatchBaseURL),
		apiclient.WithLogger(app.Logger))
	app.Logger.Debug("API client initialized",
		zap.String("verification_url", app.Client.BaseURL()),
		zap.String("dispatch_url", app.Client.DispatchBaseURL()))

	// Initialize notifications
	app.Messages = notify.NewQueue(cfg.NotificationQueueSize)
	app.Feedback = notify.NewSwitch(notify.WriterSink(app.Out))
	notifier := notify.New(
		notify.WithSink(app.Feedback),
		notify.WithSink(notify.LogSink(app.Logger)),
	)

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		notifier.Subscribe(metrics.New(reg))
		metricsSrv = startMetricsServer(cfg.MetricsAddr, reg, app.Logger)
		app.Logger.Info("Serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	// Initialize controllers
	app.Identity = identity.NewResolver(app.Tokens, app.Logger)
	app.Verification = verification.NewQueue(app.Client,
		verification.WithLogger(app.Logger),
		verification.WithNotifier(notifier))
	app.Dispatch = dispatch.NewLifecycle(app.Client, app.Tokens,
		dispatch.WithLogger(app.Logger),
		dispatch.WithNotifier(notifier))

	app.Logger.Debug("Application initialized successfully")
	return nil
}
