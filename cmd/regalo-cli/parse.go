package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/regalo/internal/bootstrap"
	"github.com/kailas-cloud/regalo/internal/config"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	intentuc "github.com/kailas-cloud/regalo/internal/usecase/intent"
)

func newParseCmd() *cobra.Command {
	var (
		provider string
		apiKey   string
		baseURL  string
		model    string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a free-text gift query into a structured intent",
		Example: `  regalo-cli parse "regalo para mi hermana de 25 años, presupuesto 50-100"
  regalo-cli parse --provider openai --api-key $OPENAI_API_KEY "auriculares bluetooth"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providers := map[string]config.ProviderConfig{
				provider: {APIKey: apiKey, BaseURL: baseURL, Model: model},
			}
			hosted, _, err := bootstrap.HostedProvider(provider, providers, logger)
			if err != nil {
				return err
			}

			var primary intentuc.Provider
			if hosted != nil {
				primary = hosted
			}
			svc := intentuc.New(primary, intentuc.NewHeuristic(), timeout, logger)

			in, err := svc.Parse(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			return printIntent(cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "local", "intent provider: openai, deepseek, local")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("REGALO_API_KEY"), "hosted provider API key")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "hosted provider base URL (default per provider)")
	cmd.Flags().StringVar(&model, "model", "", "hosted provider model (default per provider)")
	cmd.Flags().DurationVar(&timeout, "timeout", 8*time.Second, "hosted provider timeout")

	return cmd
}

func printIntent(w io.Writer, in domintent.Intent) error {
	if outputJSON {
		return writeJSON(w, in.Payload())
	}

	fmt.Fprintf(w, "Keywords:    %s\n", strings.Join(in.Keywords(), ", "))
	fmt.Fprintf(w, "Categories:  %s\n", strings.Join(in.Categories(), ", "))
	fmt.Fprintf(w, "Price range: %s\n", formatRange(in.PriceRange()))
	fmt.Fprintf(w, "Age range:   %s\n", formatRange(in.AgeRange()))
	if in.Notes() != "" {
		fmt.Fprintf(w, "Notes:       %s\n", in.Notes())
	}
	return nil
}

func formatRange(r domintent.Range) string {
	bound := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *v)
	}
	if r.IsZero() {
		return "-"
	}
	return bound(r.Min) + " .. " + bound(r.Max)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withTimeout bounds commands that talk to external services.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
