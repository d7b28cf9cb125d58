package main

import (
	"context"
	"fmt"

	"sanctuary-mural/config"
	"sanctuary-mural/pkg/logger"

	"github.com/spf13/cobra"
)

func newGridCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "grid <location>",
		Short: "Fetch and validate a mural grid (http(s):// or s3://)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			// Make sure an S3 client exists when the location needs one.
			check := *cfg
			check.Sanctuaries = map[string]config.SanctuaryConfig{"_check": {GridURL: args[0]}}
			src, err := newGridSource(ctx, &check, log)
			if err != nil {
				return err
			}

			g, err := src.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grid ok: %dx%d (%d cells, %d tiles, size %d)\n",
				g.Columns, g.Rows, g.Cells(), len(g.Squares), g.Size)
			return nil
		},
	}
}
