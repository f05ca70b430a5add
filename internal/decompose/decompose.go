// Package decompose partitions dependency-ordered modules into bounded-size
// translation units for incremental rewriting.
package decompose

import (
	"github.com/leapstack-labs/fortranmap/internal/model"
)

// Options bounds unit sizes. Both values are validated by the configuration
// layer before a run starts; the decomposer assumes MinChunkLines <=
// MaxUnitLines and both positive.
type Options struct {
	MaxUnitLines  int
	MinChunkLines int
}

// Decompose walks modules in translation order and greedily groups their
// entities, in original declaration order, into units. A unit closes when
// the next entity would push it past MaxUnitLines and it already holds at
// least MinChunkLines. An entity that alone exceeds MaxUnitLines gets its
// own oversized unit: a signal for the caller to split further, not a
// failure. Modules without entities produce no units.
func Decompose(order []string, modules map[string]*model.ModuleRecord, opts Options) []*model.TranslationUnit {
	var units []*model.TranslationUnit

	for _, name := range order {
		rec, ok := modules[name]
		if !ok || len(rec.Entities) == 0 {
			continue
		}
		units = append(units, decomposeModule(rec, modules, opts)...)
	}

	return units
}

func decomposeModule(rec *model.ModuleRecord, modules map[string]*model.ModuleRecord, opts Options) []*model.TranslationUnit {
	escalate := rec.HasUnresolvedOnly(modules)

	var units []*model.TranslationUnit
	var current *model.TranslationUnit
	hasType := false

	flush := func() {
		if current == nil {
			return
		}
		current.Effort = classify(current, hasType, escalate, opts.MaxUnitLines)
		units = append(units, current)
		current = nil
		hasType = false
	}

	for _, e := range rec.Entities {
		lines := e.Lines()

		if lines > opts.MaxUnitLines {
			flush()
			oversized := &model.TranslationUnit{
				Module:    rec.Name,
				Entities:  []string{e.Name},
				LineCount: lines,
				Oversized: true,
			}
			oversized.Effort = classify(oversized, e.Kind == model.KindDerivedType, escalate, opts.MaxUnitLines)
			units = append(units, oversized)
			continue
		}

		if current != nil &&
			current.LineCount+lines > opts.MaxUnitLines &&
			current.LineCount >= opts.MinChunkLines {
			flush()
		}

		if current == nil {
			current = &model.TranslationUnit{Module: rec.Name}
		}
		current.Entities = append(current.Entities, e.Name)
		current.LineCount += lines
		if e.Kind == model.KindDerivedType {
			hasType = true
		}
	}
	flush()

	return units
}

// classify derives the effort triage label from unit size and content. This
// is a heuristic signal, not a cost model.
func classify(u *model.TranslationUnit, hasType, escalate bool, maxLines int) model.Effort {
	switch {
	case escalate || u.LineCount > maxLines*2/3:
		return model.EffortHigh
	case u.LineCount <= maxLines/3 && !hasType:
		return model.EffortLow
	default:
		return model.EffortMedium
	}
}

// Stats summarizes a unit list for reporting.
type Stats struct {
	TotalUnits    int            `json:"total_units"`
	UnitsByEffort map[string]int `json:"units_by_effort"`
	AverageLines  float64        `json:"average_lines_per_unit"`
	Oversized     int            `json:"oversized_units"`
}

// Summarize computes aggregate unit statistics.
func Summarize(units []*model.TranslationUnit) Stats {
	s := Stats{UnitsByEffort: map[string]int{"low": 0, "medium": 0, "high": 0}}
	total := 0
	for _, u := range units {
		s.TotalUnits++
		s.UnitsByEffort[string(u.Effort)]++
		total += u.LineCount
		if u.Oversized {
			s.Oversized++
		}
	}
	if s.TotalUnits > 0 {
		s.AverageLines = float64(total) / float64(s.TotalUnits)
	}
	return s
}
