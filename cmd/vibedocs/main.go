package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vibedocs/internal/config"
	"vibedocs/internal/design"
	"vibedocs/internal/gemini"
	"vibedocs/internal/generator"
	"vibedocs/internal/matcher"
	"vibedocs/internal/project"
	"vibedocs/internal/server"
)

var (
	verbose    bool
	configPath string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vibedocs",
	Short: "VibeDocs - turn a product idea into a full set of planning documents",
	Long: `VibeDocs generates ten structured planning documents from a product
idea using the Gemini API, extracts a trackable TODO list from the plan,
and follows implementation progress with AI-assisted matching.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if verbose || cfg.Logging.Level == "debug" {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := project.NewStore(cfg.Store.DataDir, logger)
		if err != nil {
			return err
		}

		client := gemini.NewClient(logger, gemini.WithBaseURL(cfg.LLM.BaseURL))
		validator := gemini.NewValidator(client, logger, nil)
		orch := generator.New(client, generator.Pacing{
			InterCall:         cfg.LLM.InterCallDelay,
			RateLimitRecovery: cfg.LLM.RateLimitRecovery,
		}, logger, nil)
		analyzer := matcher.NewAnalyzer(client, logger)
		extractor := design.NewExtractor(logger)

		srv := server.New(store, validator, orch, analyzer, extractor, cfg.LLM.APIKey, logger)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

var validateKeyCmd = &cobra.Command{
	Use:   "validate-key [key]",
	Short: "Check a Gemini API key against the model priority list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := cfg.LLM.APIKey
		if len(args) > 0 {
			key = args[0]
		}

		client := gemini.NewClient(logger, gemini.WithBaseURL(cfg.LLM.BaseURL))
		validator := gemini.NewValidator(client, logger, nil)

		res, err := validator.Validate(cmd.Context(), key)
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
		if err != nil && !res.Valid {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "vibedocs.yaml", "Path to the config file")
	rootCmd.AddCommand(serveCmd, validateKeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
