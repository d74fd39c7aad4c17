package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mediavault/internal/config"
	"mediavault/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the mediavault API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.ListenAddr)
			if err != nil {
				return err
			}

			if cfg.AdminToken == "" {
				logger.Warn("no admin token configured; mutating routes will refuse all requests")
			}

			be, err := openBackends(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = be.close(context.Background()) }()

			srv := server.New(addr, be.store, be.catalog, logger, server.Options{
				AdminToken:         cfg.AdminToken,
				MaxUploadBytes:     cfg.Upload.MaxUploadBytes,
				MultipartMaxMemory: cfg.Upload.MultipartMaxMemory,
				AllowedMediaTypes:  cfg.Upload.AllowedMediaTypes,
			})
			return srv.ListenAndServe()
		},
	}
}
