// Package pipeline orchestrates the lead generation flow: fetch raw rows,
// build candidates, deduplicate, score, rank.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danang-cvb/leadgen-cli/internal/builder"
	"github.com/danang-cvb/leadgen-cli/internal/dedup"
	"github.com/danang-cvb/leadgen-cli/internal/fetcher"
	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/report"
	"github.com/danang-cvb/leadgen-cli/internal/scorer"
)

// Options configures one pipeline run.
type Options struct {
	Formats     builder.Formats
	Year        string
	Campaign    string
	Scoring     scorer.Config
	Concurrency int
}

// SourceStat records per-source counts for the run summary.
type SourceStat struct {
	Location   string           `json:"location"`
	Type       model.SourceType `json:"type"`
	RowsParsed int              `json:"rows_parsed"`
	Skipped    int              `json:"skipped"`
	Candidates int              `json:"candidates"`
}

// Result carries everything a run produced.
type Result struct {
	Leads   []*model.Lead
	Ranking report.Ranking
	Stats   []SourceStat
	Run     model.ImportRun
}

// Pipeline wires the stages together.
type Pipeline struct {
	opts    Options
	builder *builder.Builder
	scorer  *scorer.Scorer
}

// New creates a Pipeline. Missing options fall back to defaults.
func New(opts Options) (*Pipeline, error) {
	if opts.Formats == nil {
		opts.Formats = builder.DefaultFormats()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if err := scorer.Validate(opts.Scoring); err != nil {
		return nil, err
	}

	var bopts []builder.Option
	if opts.Year != "" {
		bopts = append(bopts, builder.WithYear(opts.Year))
	}
	if opts.Campaign != "" {
		bopts = append(bopts, builder.WithCampaign(opts.Campaign))
	}

	return &Pipeline{
		opts:    opts,
		builder: builder.New(opts.Formats, bopts...),
		scorer:  scorer.New(opts.Scoring),
	}, nil
}

// Run executes the full flow over the given sources. Sources are fetched in
// declaration order; a structurally broken file contributes zero rows but
// does not abort the run.
func (p *Pipeline) Run(ctx context.Context, sources []fetcher.Source) (*Result, error) {
	started := time.Now().UTC()
	log := zap.L()

	var (
		candidates []model.LeadCandidate
		stats      []SourceStat
		parsed     int
		skipped    int
	)

	for _, src := range sources {
		format, ok := p.opts.Formats[src.Type]
		if !ok {
			return nil, eris.Errorf("pipeline: no format for source type %q", src.Type)
		}

		rows, err := fetcher.Load(ctx, src, format.RequiredCols)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: load source %s", src.Location)
		}

		stat := SourceStat{Location: src.Location, Type: src.Type, RowsParsed: len(rows)}
		for i, row := range rows {
			c := p.builder.Build(row, src.Type, i)
			if c == nil {
				stat.Skipped++
				continue
			}
			candidates = append(candidates, *c)
		}
		stat.Candidates = stat.RowsParsed - stat.Skipped

		log.Info("pipeline: source loaded",
			zap.String("location", src.Location),
			zap.String("type", string(src.Type)),
			zap.Int("rows", stat.RowsParsed),
			zap.Int("skipped", stat.Skipped))

		parsed += stat.RowsParsed
		skipped += stat.Skipped
		stats = append(stats, stat)
	}

	leads := dedup.Reduce(candidates)

	scored, err := p.scoreAll(ctx, leads)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Leads:   leads,
		Ranking: report.Rank(scored),
		Stats:   stats,
		Run: model.ImportRun{
			StartedAt:   started,
			FinishedAt:  time.Now().UTC(),
			Sources:     len(sources),
			RowsParsed:  parsed,
			RowsSkipped: skipped,
			Candidates:  len(candidates),
			Leads:       len(leads),
		},
	}

	log.Info("pipeline: run complete",
		zap.Int("sources", len(sources)),
		zap.Int("rows", parsed),
		zap.Int("candidates", len(candidates)),
		zap.Int("leads", len(leads)))

	return result, nil
}

// scoreAll scores leads concurrently, writing each result to its input index
// so output order matches input order.
func (p *Pipeline) scoreAll(ctx context.Context, leads []*model.Lead) ([]model.ScoredEntity, error) {
	scored := make([]model.ScoredEntity, len(leads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, lead := range leads {
		i, lead := i, lead
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "pipeline: scoring cancelled")
			}
			scored[i] = p.scorer.ScoreLead(lead)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// ScoreSeries scores grouped event series the same way Run scores leads.
func (p *Pipeline) ScoreSeries(ctx context.Context, series []*model.EventSeries) ([]model.ScoredEntity, error) {
	scored := make([]model.ScoredEntity, len(series))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, es := range series {
		i, es := i, es
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "pipeline: scoring cancelled")
			}
			scored[i] = p.scorer.ScoreSeries(es)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}
