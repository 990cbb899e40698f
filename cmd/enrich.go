package main

import (
	"context"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/server"
)

var (
	enrichName        string
	enrichContext     string
	enrichMaxPages    int
	enrichFile        string
	enrichConcurrency int
	enrichFormat      string
	enrichOutput      string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Find an email or phone number for a person",
	Example: `  prospect enrich --name "Marie Dupont" --context "Acme Lyon"
  prospect enrich --file people.csv --concurrency 4 --output found.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if enrichFile == "" && strings.TrimSpace(enrichName) == "" {
			return eris.New("either --name or --file is required")
		}

		format, err := export.ParseFormat(enrichFormat)
		if err != nil {
			return err
		}
		if enrichOutput != "" && !cmd.Flags().Changed("format") {
			format = export.FormatForPath(enrichOutput, format)
		}

		lookups := []export.Lookup{{Name: enrichName, Context: enrichContext}}
		if enrichFile != "" {
			lookups, err = export.ReadLookups(enrichFile)
			if err != nil {
				return err
			}
		}

		env, err := initPipeline(ctx, "enrich")
		if err != nil {
			return err
		}
		defer env.Close()

		maxPages := enrichMaxPages
		if maxPages == 0 {
			maxPages = cfg.Enrich.MaxCandidatePages
		}

		stopSpinner := startSpinner(" looking up contacts...")
		records, found := enrichLookups(ctx, env.Enricher, lookups, maxPages, enrichConcurrency)
		stopSpinner()

		zap.L().Info("enrichment complete",
			zap.Int("lookups", len(lookups)),
			zap.Int64("found", found),
		)
		return writeRecords(enrichOutput, format, records)
	},
}

// enrichLookups runs the lookups with at most concurrency in flight. Records
// keep the input order.
func enrichLookups(ctx context.Context, e server.Enricher, lookups []export.Lookup, maxPages, concurrency int) ([]model.ContactRecord, int64) {
	if concurrency < 1 {
		concurrency = 1
	}
	records := make([]model.ContactRecord, len(lookups))
	var found atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, l := range lookups {
		g.Go(func() error {
			res := e.Enrich(gctx, l.Name, l.Context, maxPages)
			if res.Found() {
				found.Add(1)
			}
			records[i] = contact.Normalize(model.ContactRecord{
				Name:        l.Name,
				Description: l.Context,
				Email:       res.Email,
				Phone:       res.Phone,
				EmailOrigin: res.Origin,
			})
			return nil
		})
	}
	_ = g.Wait()
	return records, found.Load()
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichName, "name", "", "full name of the person")
	f.StringVar(&enrichContext, "context", "", "employer, city or activity that narrows the search")
	f.IntVar(&enrichMaxPages, "max-pages", 0, "result pages to read per query (default from config)")
	f.StringVar(&enrichFile, "file", "", "csv or xlsx file with name and context columns")
	f.IntVar(&enrichConcurrency, "concurrency", 4, "parallel lookups when using --file")
	f.StringVar(&enrichFormat, "format", "table", "output format: table, json, yaml, csv, xlsx")
	f.StringVarP(&enrichOutput, "output", "o", "", "write results to a file instead of stdout")
	rootCmd.AddCommand(enrichCmd)
}
