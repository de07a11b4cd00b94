package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danang-cvb/leadgen-cli/internal/fetcher"
	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/normalize"
	"github.com/danang-cvb/leadgen-cli/internal/pipeline"
	"github.com/danang-cvb/leadgen-cli/internal/report"
)

var (
	scoreEditions string
	scoreSheet    string
	scoreFormat   string
	scoreTop      int
)

// editionsRequiredCols anchor header discovery in the editions workbook.
var editionsRequiredCols = []string{"Series Name", "Country"}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score recurring event series from an editions workbook",
	Long: `Reads an editions sheet (one row per past edition of a recurring event),
groups rows into series, and ranks the series by Vietnam market fit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rows, err := loadEditions(ctx, scoreEditions, scoreSheet)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("no edition rows found in %s", scoreEditions)
		}

		series := model.GroupEditions(rows)
		zap.L().Info("score: grouped editions",
			zap.Int("editions", len(rows)),
			zap.Int("series", len(series)))

		p, err := pipeline.New(pipeline.Options{
			Scoring:     cfg.Scoring,
			Concurrency: cfg.Import.Concurrency,
		})
		if err != nil {
			return err
		}

		scored, err := p.ScoreSeries(ctx, series)
		if err != nil {
			return err
		}

		return writeRanking(cmd.OutOrStdout(), report.Rank(scored), scoreFormat, scoreTop)
	},
}

// loadEditions reads the editions workbook into edition rows. Rows without a
// series name are dropped; a missing series ID falls back to the name slug.
// Column lookup is tolerant of the ICCA BI export's header spelling
// (SeriesName, COUNTRY, REGATTEND, ECODE).
func loadEditions(ctx context.Context, location, sheet string) ([]model.EditionRow, error) {
	raw, err := fetcher.Load(ctx, fetcher.Source{
		Type:     model.SourceNormal,
		Location: location,
		Sheet:    sheet,
	}, editionsRequiredCols)
	if err != nil {
		return nil, err
	}

	var rows []model.EditionRow
	for _, r := range raw {
		name := editionField(r, "Series Name")
		if name == "" {
			continue
		}

		id := editionField(r, "Series ID")
		if id == "" {
			id = normalize.Slugify(name, 0)
		}

		var attendance float64
		if n := normalize.ParseDelegateCount(editionField(r, "Attendance", "REGATTEND")); n != nil {
			attendance = float64(*n)
		}

		rows = append(rows, model.EditionRow{
			SeriesID:   id,
			SeriesName: name,
			Edition: model.Edition{
				Country:    editionField(r, "Country"),
				City:       editionField(r, "City"),
				Attendance: attendance,
				EventCode:  editionField(r, "Event Code", "ECODE"),
			},
		})
	}
	return rows, nil
}

// editionField returns the first non-blank value among the named columns,
// matching header names the way fetcher.FoldColumn does.
func editionField(r model.RawRow, names ...string) string {
	for _, name := range names {
		want := fetcher.FoldColumn(name)
		for col := range r {
			if fetcher.FoldColumn(col) == want {
				if v := r.Get(col); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

func init() {
	scoreCmd.Flags().StringVar(&scoreEditions, "editions", "", "editions workbook (CSV or XLSX, required)")
	_ = scoreCmd.MarkFlagRequired("editions")
	scoreCmd.Flags().StringVar(&scoreSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "", "report format: table, detail, or json (default from config)")
	scoreCmd.Flags().IntVar(&scoreTop, "top", 0, "limit report to the top N series (0 = all)")
	rootCmd.AddCommand(scoreCmd)
}
