package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/regalo/internal/bootstrap"
	"github.com/kailas-cloud/regalo/internal/config"
	"github.com/kailas-cloud/regalo/internal/db/postgres"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
)

func newSearchCmd() *cobra.Command {
	var (
		env     string
		limit   int
		offset  int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Run the full search pipeline against the catalog",
		Example: `  regalo-cli search --env local --limit 5 "lego para mi sobrino de 8 años"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()

			store, err := postgres.NewStore(postgres.Config{DSN: cfg.Database.DSN, MaxOpenConns: 2})
			if err != nil {
				return fmt.Errorf("create catalog store: %w", err)
			}
			defer store.Close()

			if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
				return fmt.Errorf("catalog database not ready: %w", err)
			}

			pipeline, err := bootstrap.Build(&cfg, store, nil, logger)
			if err != nil {
				return fmt.Errorf("build pipeline: %w", err)
			}

			resp, err := pipeline.Search.Search(ctx, searchuc.Request{
				Query:  strings.Join(args, " "),
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return printSearch(cmd.OutOrStdout(), &resp)
		},
	}

	cmd.Flags().StringVar(&env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default from catalog)")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")

	return cmd
}

func printSearch(w io.Writer, resp *searchuc.Response) error {
	if outputJSON {
		return writeJSON(w, resp)
	}

	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(resp.Keywords, ", "))
	fmt.Fprintf(w, "Showing %d of %d (offset %d)\n\n", len(resp.Hits), resp.Total, resp.Offset)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTITLE\tPRICE\tESTIMATE")
	for _, h := range resp.Hits {
		estimate := "-"
		if h.Estimate != nil {
			estimate = h.Estimate.Formatted
			if estimate == "" {
				estimate = fmt.Sprintf("%.2f %s", h.Estimate.Amount, h.Estimate.Currency)
			}
		}
		fmt.Fprintf(tw, "%g\t%s\t%.2f %s\t%s\n",
			h.Score, h.Product.Title, h.Product.PriceOriginal, h.Product.CurrencyOriginal, estimate)
	}
	return tw.Flush()
}
