// Package pipeline wires the stages together: gate, resolve, gate again,
// enrich, score. Each input flows independently; one shared ledger and one
// ordered rejection log make the run auditable end to end.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/enrich/provider"
	"github.com/sells-group/prospect-cli/internal/evidence"
	"github.com/sells-group/prospect-cli/internal/gate"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resolve"
	"github.com/sells-group/prospect-cli/internal/rules"
	"github.com/sells-group/prospect-cli/internal/score"
)

// Stats counts what happened to a batch.
type Stats struct {
	Processed int `json:"processed"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Resolved  int `json:"resolved"`
	Enriched  int `json:"enriched"`
}

// Result is the complete outcome of one pipeline run. Leads are sorted by
// the ranking tie-break; rejections keep input order. On identical input the
// whole result, run ID aside, is byte-identical across runs.
type Result struct {
	RunID       string               `json:"run_id"`
	EvaluatedAt time.Time            `json:"evaluated_at"`
	Leads       []*score.RankedLead  `json:"leads"`
	Rejections  []*model.Rejection   `json:"rejections"`
	Evidence    []*evidence.Evidence `json:"evidence"`
	Stats       Stats                `json:"stats"`
}

// Pipeline executes signal batches.
type Pipeline struct {
	cfg    *rules.Rules
	ledger *evidence.Ledger

	gate      *gate.Gate
	resolver  *resolve.Resolver
	waterfall *enrich.Waterfall
	scorer    *score.Scorer

	concurrency int
}

// New assembles a pipeline over a fresh ledger. Concurrency below 1 runs
// sequentially.
func New(cfg *rules.Rules, concurrency int) *Pipeline {
	ledger := evidence.NewLedger(cfg.Evidence)
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		cfg:         cfg,
		ledger:      ledger,
		gate:        gate.New(cfg, ledger),
		resolver:    resolve.New(cfg, ledger),
		waterfall:   enrich.New(cfg, ledger),
		scorer:      score.New(cfg, ledger),
		concurrency: concurrency,
	}
}

// Ledger exposes the run's evidence store for audit commands.
func (p *Pipeline) Ledger() *evidence.Ledger {
	return p.ledger
}

// RegisterProvider plugs an enrichment provider into the waterfall.
func (p *Pipeline) RegisterProvider(pr provider.Provider) {
	p.waterfall.Register(pr)
}

// outcome is the per-input result slot; exactly one of lead/rejection is set.
type outcome struct {
	lead      *score.RankedLead
	rejection *model.Rejection
	enriched  bool
	resolved  bool
}

// Process runs the batch. Every input lands in exactly one bucket: a ranked
// lead or a logged rejection. Evaluation time is passed in, never read from
// the clock, so results are reproducible.
func (p *Pipeline) Process(ctx context.Context, inputs []model.SignalInput, now time.Time) (*Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline run started",
		zap.Int("inputs", len(inputs)),
		zap.Int("concurrency", p.concurrency))

	outcomes := make([]outcome, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := p.process(ctx, in, now)
			if err != nil {
				return eris.Wrap(err, "pipeline: process signal")
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, EvaluatedAt: now}
	for _, o := range outcomes {
		res.Stats.Processed++
		if o.resolved {
			res.Stats.Resolved++
		}
		if o.enriched {
			res.Stats.Enriched++
		}
		if o.rejection != nil {
			res.Stats.Rejected++
			res.Rejections = append(res.Rejections, o.rejection)
			continue
		}
		res.Stats.Accepted++
		res.Leads = append(res.Leads, o.lead)
	}
	score.SortLeads(res.Leads)

	// Ledger insertion order depends on scheduling; sort the audit dump by ID
	// so identical inputs yield identical output.
	res.Evidence = p.ledger.All()
	sort.Slice(res.Evidence, func(i, j int) bool {
		return res.Evidence[i].ID < res.Evidence[j].ID
	})

	log.Info("pipeline run finished",
		zap.Int("accepted", res.Stats.Accepted),
		zap.Int("rejected", res.Stats.Rejected))
	return res, nil
}

// process runs one input through the stage sequence.
func (p *Pipeline) process(ctx context.Context, in model.SignalInput, now time.Time) (outcome, error) {
	sig, rej, err := p.gate.Signal(in, now)
	if err != nil {
		return outcome{}, err
	}
	if rej != nil {
		return outcome{rejection: rej}, nil
	}

	entity, rej, err := p.resolver.Resolve(sig, now)
	if err != nil {
		return outcome{}, err
	}
	if rej != nil {
		return outcome{rejection: rej}, nil
	}

	if rej := p.gate.Entity(entity, sig, now); rej != nil {
		return outcome{resolved: true, rejection: rej}, nil
	}

	enriched := p.waterfall.Enrich(ctx, entity, sig, now)

	return outcome{
		resolved: true,
		enriched: len(enriched.Added) > 0,
		lead:     p.scorer.Score(entity, sig, now),
	}, nil
}
