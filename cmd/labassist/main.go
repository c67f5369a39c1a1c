package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/config"
	logpkg "github.com/kailas-cloud/labassist/internal/logger"
)

var (
	env    string
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "labassist",
	Short: "Lab operations assistant",
	Long: "Answers lab-operations questions from a search index of test records and instrument manuals, " +
		"summarized by a language model.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()

		env = config.GetEnv()
		c, err := config.Load(env)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(serveCmd(), askCmd(), versionCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
