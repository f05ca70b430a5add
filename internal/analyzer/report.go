package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/fortranmap/internal/dag"
	"github.com/leapstack-labs/fortranmap/internal/decompose"
	"github.com/leapstack-labs/fortranmap/internal/extractor"
	"github.com/leapstack-labs/fortranmap/internal/model"
	"github.com/leapstack-labs/fortranmap/internal/registry"
)

// Report is the complete output of one analysis run, convertible to JSON.
// The modules / statistics / dependencies / translation_order / is_dag /
// units fields are a compatibility contract: fields may be appended but not
// removed or retyped without a schema version bump. The report deliberately
// carries no timestamps or run IDs: identical input must produce
// byte-identical output.
type Report struct {
	SchemaVersion int    `json:"schema_version"`
	ProjectName   string `json:"project_name,omitempty"`
	ProjectRoot   string `json:"project_root"`

	Modules map[string]*model.ModuleRecord `json:"modules"`

	Statistics Statistics `json:"statistics"`

	Dependencies Dependencies `json:"dependencies"`

	TranslationOrder []string `json:"translation_order"`
	IsDAG            bool     `json:"is_dag"`

	Units     []*model.TranslationUnit `json:"units"`
	UnitStats decompose.Stats          `json:"unit_statistics"`

	Hubs    []string `json:"hubs"`
	Orphans []string `json:"orphans"`

	Collisions    []*model.Collision    `json:"collisions"`
	ParseFailures []*model.ParseFailure `json:"parse_failures"`

	Recommendations []string `json:"recommendations"`
}

// SchemaVersion of the report layout produced by this build.
const SchemaVersion = 1

// Statistics summarizes the parsed inputs. TotalFiles counts every file
// matching the configured extensions regardless of content; failed files
// contribute only to FailedFiles.
type Statistics struct {
	TotalFiles       int `json:"total_files"`
	FailedFiles      int `json:"failed_files"`
	TotalLines       int `json:"total_lines"`
	TotalModules     int `json:"total_modules"`
	TotalSubroutines int `json:"total_subroutines"`
	TotalFunctions   int `json:"total_functions"`
	TotalTypes       int `json:"total_types"`
}

// Dependencies is the graph section of the report. Internal lists only
// modules with at least one internal dependency; every name it references is
// a key of Modules, and nothing in External ever is.
type Dependencies struct {
	Internal map[string][]string `json:"internal"`
	External []string            `json:"external"`
	Circular [][]string          `json:"circular"`
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func buildReport(
	cfg Config,
	files []string,
	results []*extractor.FileResult,
	reg *registry.ModuleRegistry,
	graph *dag.Graph,
	order []string,
	isDAG bool,
	units []*model.TranslationUnit,
) *Report {
	stats := Statistics{TotalFiles: len(files)}
	var failures []*model.ParseFailure
	for _, res := range results {
		if res.Failure != nil {
			stats.FailedFiles++
			failures = append(failures, res.Failure)
			continue
		}
		stats.TotalLines += res.LineCount
	}

	stats.TotalModules = reg.Len()
	for _, rec := range reg.Modules() {
		stats.TotalSubroutines += len(rec.Subroutines)
		stats.TotalFunctions += len(rec.Functions)
		stats.TotalTypes += len(rec.Types)
	}

	circular := graph.Cycles()
	if circular == nil {
		circular = [][]string{}
	}
	if units == nil {
		units = []*model.TranslationUnit{}
	}
	if failures == nil {
		failures = []*model.ParseFailure{}
	}
	hubs := graph.Hubs(cfg.TopHubs)
	if hubs == nil {
		hubs = []string{}
	}
	orphans := graph.Orphans()
	if orphans == nil {
		orphans = []string{}
	}
	collisions := reg.Collisions()
	if collisions == nil {
		collisions = []*model.Collision{}
	}

	report := &Report{
		SchemaVersion: SchemaVersion,
		ProjectName:   cfg.ProjectName,
		ProjectRoot:   cfg.ProjectRoot,
		Modules:       reg.Modules(),
		Statistics:    stats,
		Dependencies: Dependencies{
			Internal: graph.InternalEdges(),
			External: graph.External(),
			Circular: circular,
		},
		TranslationOrder: order,
		IsDAG:            isDAG,
		Units:            units,
		UnitStats:        decompose.Summarize(units),
		Hubs:             hubs,
		Orphans:          orphans,
		Collisions:       collisions,
		ParseFailures:    failures,
	}
	report.Recommendations = recommendations(report, cfg)
	return report
}

// recommendations derives advisory notes for planning the rewrite. Pure
// string triage over the report; nothing downstream depends on it.
func recommendations(r *Report, cfg Config) []string {
	recs := []string{}

	if r.UnitStats.TotalUnits > 50 {
		recs = append(recs, "Large project: plan an incremental, module-by-module translation.")
	}
	if high := r.UnitStats.UnitsByEffort["high"]; r.UnitStats.TotalUnits > 0 &&
		float64(high)/float64(r.UnitStats.TotalUnits) > 0.3 {
		recs = append(recs, "Over 30% of units are high effort: budget extra time for the rewrite.")
	}
	if n := len(r.Dependencies.Circular); n > 0 {
		recs = append(recs, fmt.Sprintf("Found %d circular dependencies; resolve them before translating the affected modules.", n))
	}
	if n := len(r.Dependencies.External); n > 0 {
		recs = append(recs, fmt.Sprintf("Project uses %d external modules; verify replacements exist in the target language.", n))
	}
	if n := len(r.Orphans); n > 0 {
		recs = append(recs, fmt.Sprintf("Found %d orphan modules; check whether they are dead code before translating.", n))
	}
	if len(r.Hubs) > 0 {
		recs = append(recs, fmt.Sprintf("Hub modules %v are heavily depended upon; translate and stabilize them first.", r.Hubs))
	}
	if r.UnitStats.AverageLines > float64(cfg.MaxUnitLines)*0.8 {
		recs = append(recs, "Average unit size is close to the line budget; consider lowering max_unit_lines.")
	}

	return recs
}
