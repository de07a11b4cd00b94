package main

import (
	"io"

	"github.com/rotisserie/eris"

	"github.com/danang-cvb/leadgen-cli/internal/report"
)

// writeRanking renders a ranking in the requested format, falling back to
// the configured defaults.
func writeRanking(w io.Writer, r report.Ranking, format string, top int) error {
	if format == "" {
		format = cfg.Report.Format
	}
	if top == 0 {
		top = cfg.Report.Top
	}

	switch format {
	case "", "table":
		return report.WriteTable(w, r, top)
	case "detail":
		return report.WriteDetail(w, r, top)
	case "json":
		return report.WriteJSON(w, r)
	default:
		return eris.Errorf("unknown report format %q (want table, detail, or json)", format)
	}
}
