// Package analyzer orchestrates the analysis pipeline: file discovery,
// parallel entity extraction, module aggregation, dependency graph
// construction, and translation-unit decomposition. All state is scoped to
// one Analyzer value; a re-analysis re-derives everything from source.
package analyzer

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/fortranmap/internal/dag"
	"github.com/leapstack-labs/fortranmap/internal/decompose"
	"github.com/leapstack-labs/fortranmap/internal/extractor"
	"github.com/leapstack-labs/fortranmap/internal/registry"
)

// Analyzer runs the pipeline for one validated configuration.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// New validates cfg and returns an Analyzer. Validation failure is the only
// fatal error class; everything later degrades into diagnostics on the
// report.
func New(cfg Config, logger *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}, nil
}

// Run executes the full pipeline. Stages run strictly in order: graph
// construction needs the complete module set, decomposition needs the
// finalized translation order. Only file extraction fans out, and its
// results merge back in path order so output stays deterministic.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := a.logger.With("run_id", runID)
	log.Info("starting analysis", "project", a.cfg.ProjectName, "root", a.cfg.ProjectRoot)

	files, err := a.findSourceFiles()
	if err != nil {
		return nil, err
	}
	log.Info("discovered source files", "count", len(files))

	results, err := a.extractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	reg := registry.NewModuleRegistry()
	reg.AddAll(results)
	log.Info("aggregated modules", "modules", reg.Len(), "collisions", len(reg.Collisions()))

	graph := dag.Build(reg.Modules())
	order, isDAG := graph.TranslationOrder()
	if !isDAG {
		log.Warn("dependency graph is cyclic; translation order is a best-effort linearization",
			"cycles", len(graph.Cycles()))
	}

	units := decompose.Decompose(order, reg.Modules(), decompose.Options{
		MaxUnitLines:  a.cfg.MaxUnitLines,
		MinChunkLines: a.cfg.MinChunkLines,
	})

	report := buildReport(a.cfg, files, results, reg, graph, order, isDAG, units)

	log.Info("analysis completed",
		"files", len(files),
		"modules", reg.Len(),
		"units", len(units),
		"is_dag", isDAG,
		"duration_ms", time.Since(start).Milliseconds())

	return report, nil
}

// extractAll extracts every file, fanning out across a bounded worker group.
// Extraction is pure per file, so parallelism is safe; each result lands in
// the slot of its path-sorted file, which keeps the merged order independent
// of scheduling.
func (a *Analyzer) extractAll(ctx context.Context, files []string) ([]*extractor.FileResult, error) {
	results := make([]*extractor.FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = extractor.ExtractFile(path)
			if results[i].Failure != nil {
				a.logger.Debug("extraction failure", "path", path, "reason", results[i].Failure.Reason)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
