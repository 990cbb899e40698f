package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	scrapeSources    []string
	scrapeCriteria   model.Criteria
	scrapeMaxResults int
	scrapeFormat     string
	scrapeOutput     string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Aggregate contacts from the selected sources",
	Example: `  prospect scrape --source linkedin --source google --title "directeur commercial" --location Lyon
  prospect scrape --source pagesjaunes --sector plombier --location Nantes --output plombiers.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		format, err := export.ParseFormat(scrapeFormat)
		if err != nil {
			return err
		}
		if scrapeOutput != "" && !cmd.Flags().Changed("format") {
			format = export.FormatForPath(scrapeOutput, format)
		}

		env, err := initPipeline(ctx, "scrape")
		if err != nil {
			return err
		}
		defer env.Close()

		maxResults := scrapeMaxResults
		if maxResults == 0 {
			maxResults = cfg.Aggregate.MaxResults
		}

		stopSpinner := startSpinner(" searching...")
		result := env.Aggregator.Aggregate(ctx, scrapeSources, scrapeCriteria, maxResults)
		stopSpinner()

		for _, f := range result.Failures {
			fmt.Fprintf(os.Stderr, "source %s failed: %s\n", f.Source, f.Reason)
		}
		zap.L().Info("scrape complete",
			zap.Int("records", len(result.Records)),
			zap.Int("failures", len(result.Failures)),
		)

		return writeRecords(scrapeOutput, format, result.Records)
	},
}

// writeRecords renders records to path, or to stdout when path is empty.
func writeRecords(path string, format export.Format, records []model.ContactRecord) error {
	if path == "" {
		return export.Write(os.Stdout, format, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create output file")
	}
	return writeAndClose(f, format, records)
}

// writeAndClose writes records to wc and closes it. A close failure is
// returned when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, format export.Format, records []model.ContactRecord) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "close output file")
		}
	}()
	return export.Write(wc, format, records)
}

// startSpinner shows progress on stderr when it is a terminal. The returned
// func stops it.
func startSpinner(suffix string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

func init() {
	f := scrapeCmd.Flags()
	f.StringArrayVar(&scrapeSources, "source", nil, "source to query: linkedin, google, google_maps, pagesjaunes (repeatable, default from config)")
	f.StringVar(&scrapeCriteria.Title, "title", "", "job title")
	f.StringVar(&scrapeCriteria.Sector, "sector", "", "business sector or activity")
	f.StringVar(&scrapeCriteria.Location, "location", "", "city or region")
	f.StringVar(&scrapeCriteria.Company, "company", "", "company name")
	f.StringVar(&scrapeCriteria.Role, "role", "", "role, used when no title is given")
	f.StringVar(&scrapeCriteria.CompanySize, "company-size", "", "company size band")
	f.StringVar(&scrapeCriteria.Keywords, "keywords", "", "free-text keywords")
	f.StringVar(&scrapeCriteria.Profession, "profession", "", "profession, used by the business directory")
	f.IntVar(&scrapeMaxResults, "max-results", 50, "maximum number of records")
	f.StringVar(&scrapeFormat, "format", "table", "output format: table, json, yaml, csv, xlsx")
	f.StringVarP(&scrapeOutput, "output", "o", "", "write results to a file instead of stdout")
	rootCmd.AddCommand(scrapeCmd)
}
