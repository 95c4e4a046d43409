/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbnread/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection server",
	Long: `Start an HTTP server that parses and inspects files on request and
exposes Prometheus metrics for every parse.

Endpoints:
  GET  /api/v1/health
  POST /api/v1/parse     {"path": "...", "mode": "stream|direct|batch"}
  GET  /api/v1/inspect?path=...&limit=N
  GET  /metrics

Examples:
  dbnread serve
  dbnread serve --port 9300 --root /data/dbn`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bind := appConfig.Server.Bind
		if cmd.Flags().Changed("bind") {
			bind, _ = cmd.Flags().GetString("bind")
		}
		port := appConfig.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		root, _ := cmd.Flags().GetString("root")

		opts, err := appConfig.SourceOptions()
		if err != nil {
			return err
		}
		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, api.ServerConfig{
			Bind:   bind,
			Port:   port,
			Root:   root,
			Source: opts,
		}, slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("bind", "", "Address to bind (default from config)")
	serveCmd.Flags().String("root", "", "Only serve files under this directory")
}
