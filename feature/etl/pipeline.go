package etl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fuel-dashboard/core/reconcile"
	"fuel-dashboard/core/source"

	"go.uber.org/zap"
)

// Run statuses reported by the status route.
const (
	StatusNeverRun = "never_run"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
)

// Report describes the most recent pipeline run.
type Report struct {
	Status     string            `json:"status"`
	Source     string            `json:"source,omitempty"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	ArchiveKey string            `json:"archive_key,omitempty"`
	Result     *reconcile.Result `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Pipeline is one fetch, archive, adapt and reconcile cycle. It satisfies
// scheduler.Job.
type Pipeline struct {
	source  source.Source
	engine  *reconcile.Engine
	archive *Archive
	logger  *zap.Logger
	now     func() time.Time

	mu   sync.RWMutex
	last Report
}

// NewPipeline wires a pipeline. archive may be nil to skip archiving.
func NewPipeline(src source.Source, engine *reconcile.Engine, archive *Archive, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		source:  src,
		engine:  engine,
		archive: archive,
		logger:  logger,
		now:     time.Now,
		last:    Report{Status: StatusNeverRun},
	}
}

// SetClock replaces the pipeline's clock. The engine keeps its own.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Name implements scheduler.Job.
func (p *Pipeline) Name() string {
	return "etl"
}

// Run executes one cycle. A fetch failure leaves the store untouched.
func (p *Pipeline) Run(ctx context.Context) error {
	started := p.now().UTC()
	report := Report{Source: p.source.Name(), StartedAt: &started}

	result, key, err := p.run(ctx, started)
	report.ArchiveKey = key
	report.Result = result

	finished := p.now().UTC()
	report.FinishedAt = &finished
	if err != nil {
		report.Status = StatusFailed
		report.Error = err.Error()
	} else {
		report.Status = StatusSuccess
	}

	p.mu.Lock()
	p.last = report
	p.mu.Unlock()

	return err
}

func (p *Pipeline) run(ctx context.Context, started time.Time) (*reconcile.Result, string, error) {
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		p.logger.Error("Fetch failed", zap.String("source", p.source.Name()), zap.Error(err))
		return nil, "", fmt.Errorf("failed to fetch payload: %w", err)
	}
	p.logger.Info("Payload fetched", zap.String("source", p.source.Name()), zap.Int("bytes", len(raw)))

	key := p.archivePayload(ctx, started, raw)

	records := source.Adapt(raw)
	if records.Empty() {
		p.logger.Warn("Payload contained no stations or prices")
	}

	result, err := p.engine.Run(ctx, records)
	return result, key, err
}

// archivePayload stores the payload and expires old ones. Archive failures
// are logged and never fail the run.
func (p *Pipeline) archivePayload(ctx context.Context, started time.Time, raw []byte) string {
	if p.archive == nil {
		return ""
	}
	key, err := p.archive.Put(ctx, started, raw)
	if err != nil {
		p.logger.Warn("Payload archive failed", zap.Error(err))
	} else {
		p.logger.Debug("Payload archived", zap.String("bucket", p.archive.Bucket()), zap.String("object", key))
	}
	if removed, err := p.archive.Prune(ctx, started); err != nil {
		p.logger.Warn("Archive pruning failed", zap.Error(err))
	} else if removed > 0 {
		p.logger.Info("Archived payloads pruned", zap.Int("removed", removed))
	}
	return key
}

// DryRun fetches and plans a cycle without archiving or writing.
func (p *Pipeline) DryRun(ctx context.Context) (*reconcile.Plan, error) {
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payload: %w", err)
	}
	return p.engine.Plan(ctx, source.Adapt(raw), p.now())
}

// LastReport returns the report of the most recent run.
func (p *Pipeline) LastReport() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
