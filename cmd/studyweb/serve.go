// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/studyweb/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question page and JSON answer API over HTTP",
	Long: `Serve starts an HTTP server with the question page at / and a JSON
endpoint at /api/answer (GET ?q= or POST {"query": ...}). It runs until
interrupted.`,
	Annotations: map[string]string{defaultLogLevelKey: "info"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := appConfig, logger

		pipeline, pc, err := newPipeline(cfg, log)
		if err != nil {
			return err
		}
		defer pc.Close()

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(cfg.Serve, pipeline, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

// logLevelOverridden reports whether the log level came from a flag, the
// environment, or a config file rather than the CLI-wide default.
func logLevelOverridden(cmd *cobra.Command, v *viper.Viper) bool {
	if cmd.Flags().Changed("log-level") {
		return true
	}
	if os.Getenv("STUDYWEB_LOG_LEVEL") != "" {
		return true
	}
	return v.InConfig("log.level")
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS origins to allow (default any)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.allow_origins", serveCmd.Flags().Lookup("allow-origin"))

	rootCmd.AddCommand(serveCmd)
}
