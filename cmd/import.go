package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danang-cvb/leadgen-cli/internal/builder"
	"github.com/danang-cvb/leadgen-cli/internal/fetcher"
	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/pipeline"
	"github.com/danang-cvb/leadgen-cli/internal/sqlgen"
	"github.com/danang-cvb/leadgen-cli/internal/store"
)

var (
	importSources  []string
	importYear     string
	importCampaign string
	importFormats  string
	importSheet    string
	importSQLOut   string
	importSave     bool
	importReport   string
	importTop      int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import lead exports, deduplicate, and rank",
	Long: `Reads one or more source exports (CSV or XLSX, local, ftp:// or https://),
builds deduplicated leads, and emits SQL scripts, a ranked report, or rows
in the configured store.

Sources are given as TYPE=LOCATION, e.g.:
  leadgen-cli import --source CORP=corp_accounts.csv --source DMC=ftp://files/dmc.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sources, err := parseSources(importSources)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return eris.New("at least one --source is required")
		}

		formats := builder.DefaultFormats()
		if importFormats == "" {
			importFormats = cfg.Import.FormatsPath
		}
		if importFormats != "" {
			formats, err = builder.LoadFormats(importFormats)
			if err != nil {
				return err
			}
		}

		year := importYear
		if year == "" && cfg.Import.Year > 0 {
			year = fmt.Sprintf("%d", cfg.Import.Year)
		}
		campaign := importCampaign
		if campaign == "" {
			campaign = cfg.Import.Campaign
		}

		p, err := pipeline.New(pipeline.Options{
			Formats:     formats,
			Year:        year,
			Campaign:    campaign,
			Scoring:     cfg.Scoring,
			Concurrency: cfg.Import.Concurrency,
		})
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, sources)
		if err != nil {
			return err
		}

		for _, stat := range res.Stats {
			zap.L().Info("import: source summary",
				zap.String("location", stat.Location),
				zap.String("type", string(stat.Type)),
				zap.Int("rows", stat.RowsParsed),
				zap.Int("skipped", stat.Skipped))
		}

		if importSQLOut != "" {
			if err := writeSQLScripts(res.Leads, importSQLOut); err != nil {
				return err
			}
		}

		if importSave {
			if err := saveRun(ctx, res); err != nil {
				return err
			}
		}

		return writeRanking(cmd.OutOrStdout(), res.Ranking, importReport, importTop)
	},
}

// parseSources parses TYPE=LOCATION flags into fetcher sources.
func parseSources(specs []string) ([]fetcher.Source, error) {
	var sources []fetcher.Source
	for _, spec := range specs {
		typ, loc, ok := strings.Cut(spec, "=")
		if !ok || loc == "" {
			return nil, eris.Errorf("invalid --source %q (want TYPE=LOCATION)", spec)
		}

		st := model.SourceType(strings.ToUpper(strings.TrimSpace(typ)))
		switch st {
		case model.SourceCorp, model.SourceDMC, model.SourceNormal, model.SourcePostcard:
		default:
			return nil, eris.Errorf("unknown source type %q (want CORP, DMC, NORMAL, or POSTCARD)", typ)
		}

		sources = append(sources, fetcher.Source{Type: st, Location: loc, Sheet: importSheet})
	}
	return sources, nil
}

// writeSQLScripts groups leads by source and writes one INSERT script per
// group into dir.
func writeSQLScripts(leads []*model.Lead, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create sql output dir %s", dir)
	}

	bySource := make(map[model.SourceType][]*model.Lead)
	var order []model.SourceType
	for _, l := range leads {
		if _, seen := bySource[l.Source]; !seen {
			order = append(order, l.Source)
		}
		bySource[l.Source] = append(bySource[l.Source], l)
	}

	now := time.Now().UTC()
	for _, st := range order {
		script, err := sqlgen.Script(bySource[st], sqlgen.LayoutFor(st), now)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, strings.ToLower(string(st))+"_leads.sql")
		if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", path)
		}
		zap.L().Info("import: wrote sql script",
			zap.String("path", path),
			zap.Int("leads", len(bySource[st])))
	}
	return nil
}

// saveRun upserts the run's leads and audit record into the configured store.
func saveRun(ctx context.Context, res *pipeline.Result) error {
	st, err := store.Open(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	n, err := st.UpsertLeads(ctx, res.Leads)
	if err != nil {
		return err
	}
	if err := st.RecordImportRun(ctx, &res.Run); err != nil {
		return err
	}

	zap.L().Info("import: saved to store",
		zap.Int64("leads", n),
		zap.String("run_id", res.Run.ID))
	return nil
}

func init() {
	importCmd.Flags().StringArrayVar(&importSources, "source", nil, "source export as TYPE=LOCATION (repeatable)")
	importCmd.Flags().StringVar(&importYear, "year", "", "year appended to corp and dmc lead IDs")
	importCmd.Flags().StringVar(&importCampaign, "campaign", "", "campaign slug used as the postcard ID prefix")
	importCmd.Flags().StringVar(&importFormats, "formats", "", "YAML file overriding the built-in source formats")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	importCmd.Flags().StringVar(&importSQLOut, "sql-out", "", "directory for generated INSERT scripts")
	importCmd.Flags().BoolVar(&importSave, "save", false, "upsert leads into the configured store")
	importCmd.Flags().StringVar(&importReport, "format", "", "report format: table, detail, or json (default from config)")
	importCmd.Flags().IntVar(&importTop, "top", 0, "limit report to the top N leads (0 = all)")
	rootCmd.AddCommand(importCmd)
}
