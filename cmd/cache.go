package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fetched-page cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cached pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		if st == nil {
			return eris.New("cache is disabled (store.driver is none)")
		}
		defer func() { _ = st.Close() }()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		n, err := st.DeleteExpiredPages(ctx)
		if err != nil {
			return eris.Wrap(err, "prune cache")
		}
		zap.L().Info("cache pruned", zap.Int("deleted", n))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired page(s)\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
