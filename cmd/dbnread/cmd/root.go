/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/config"
	"github.com/ssargent/dbnread/pkg/di"
	"github.com/ssargent/dbnread/pkg/logging"
	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/source"
)

var (
	container *di.Container

	// appConfig is the configuration in effect for the running command,
	// loaded by the root PersistentPreRunE.
	appConfig *config.Config

	closeLog func() error
)

// SetContainer injects the dependency container used by the commands.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbnread",
	Short: "dbnread - DBN market data decoder",
	Long: `dbnread decodes Databento Binary Encoding (DBN) market-by-order files.

Files are read through a memory mapping or loaded into memory in parallel
chunks, then drained record by record, in batches, or all at once.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		closer, err := logging.Setup(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		closeLog = closer
		appConfig = cfg
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog == nil {
			return nil
		}
		closer := closeLog
		closeLog = nil
		return closer()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("mode", "", "Source mode: mmap or buffered")
	rootCmd.PersistentFlags().Int("parallelism", 0, "Concurrent chunk reads in buffered mode")
}

// loadConfig reads the config file, if any, and applies flag overrides. An
// explicit --config must exist; the default path is optional.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Source.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("parallelism") {
		cfg.Source.Parallelism, _ = cmd.Flags().GetInt("parallelism")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sourceFor returns an opener for path using the configured source mode.
func sourceFor(path string) (source.Opener, error) {
	opts, err := appConfig.SourceOptions()
	if err != nil {
		return nil, err
	}
	return source.PathWithOptions(path, opts), nil
}

func readerOptions() []reader.Option {
	return []reader.Option{
		reader.WithLogger(slog.Default()),
		reader.WithBufferReuse(appConfig.Reader.BufferReuse),
	}
}
