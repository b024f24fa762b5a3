package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-blog/pkg/simpleblog/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var configFile string
	var platform string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "blogshell",
		Short: "Interactive shell for the blog backend",
		Long: `Interactive shell for the blog backend.

Connects to the platform configured through the environment (or a .env
file) and runs account, post and file commands against it.

Uses the in-memory platform by default for quick testing and development.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if it exists (silently ignore if not found)
			_ = godotenv.Load()

			opts := []config.Option{config.WithEnv()}
			if configFile != "" {
				opts = []config.Option{config.WithEnvFile(configFile)}
			}
			if platform != "" {
				opts = append(opts, config.WithPlatform(platform))
			}
			if verbose {
				opts = append(opts, config.WithLogLevel("debug"))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			services, err := cfg.BuildServices(logger)
			if err != nil {
				return fmt.Errorf("failed to build services: %w", err)
			}

			shell := NewShell(services.Auth, services.Content, cmd.OutOrStdout())
			return shell.Run(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json, toml or .env)")
	rootCmd.Flags().StringVarP(&platform, "platform", "p", "", "platform override (appwrite or memory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewEnvCommand())

	return rootCmd
}

// NewEnvCommand creates the env command
func NewEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the shell reads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	}
}

func newLogger(w io.Writer, levelName string) *slog.Logger {
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
}
