// Package model defines the immutable data structures shared by the
// analysis pipeline: source entities, use-relations, module records, and
// translation units. Every type here is created by exactly one pipeline
// stage and read-only afterwards.
package model

import "strings"

// EntityKind classifies a declared Fortran construct.
type EntityKind string

const (
	KindModule      EntityKind = "module"
	KindSubroutine  EntityKind = "subroutine"
	KindFunction    EntityKind = "function"
	KindDerivedType EntityKind = "type"
	KindInterface   EntityKind = "interface"
)

// Effort is the coarse rewrite-difficulty triage label for a translation unit.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Normalize lowercases a Fortran identifier. Fortran names are
// case-insensitive, so normalized names are used as map keys and graph node
// IDs throughout the pipeline while declared spellings are kept for display.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SourceEntity is one declared construct in a source file.
// LineStart and LineEnd are 1-based and inclusive; LineEnd >= LineStart.
type SourceEntity struct {
	Name      string     `json:"name"`
	Kind      EntityKind `json:"kind"`
	FilePath  string     `json:"file"`
	LineStart int        `json:"line_start"`
	LineEnd   int        `json:"line_end"`

	// Parent is the normalized name of the enclosing module, empty for
	// file-scope entities.
	Parent string `json:"parent,omitempty"`

	// Closed set of optional extracted details. ReturnType and ResultName
	// apply to functions only.
	ReturnType string `json:"return_type,omitempty"`
	ResultName string `json:"result_name,omitempty"`

	// Unterminated marks a degraded span: no matching end statement was
	// found, so the span runs to end of file.
	Unterminated bool `json:"unterminated,omitempty"`
}

// Lines returns the entity's span length in lines.
func (e *SourceEntity) Lines() int {
	return e.LineEnd - e.LineStart + 1
}

// UseRelation is a declared dependency of one module on another. The target
// is not yet validated against the known module set; the dependency graph
// engine decides whether it is internal or external.
type UseRelation struct {
	Module string   `json:"module"`
	Only   []string `json:"only"`
}

// ModuleRecord is the aggregated view of one module. Name is the normalized
// (lowercased) module name and is unique across the project once the
// registry has resolved duplicates.
type ModuleRecord struct {
	Name     string `json:"-"`
	FilePath string `json:"file"`

	// Synthetic is set when the record stands in for file-scope entities of
	// a file with no module statement; Name derives from the file base name.
	Synthetic bool `json:"synthetic,omitempty"`

	Uses []UseRelation `json:"uses"`

	Subroutines []string `json:"subroutines"`
	Functions   []string `json:"functions"`
	Types       []string `json:"types"`
	Interfaces  []string `json:"interfaces,omitempty"`

	// Entities in original declaration order (ascending start line).
	Entities []*SourceEntity `json:"-"`

	// LineCount is the total line count of the defining file.
	LineCount int `json:"line_count"`
}

// HasUnresolvedOnly reports whether any use-relation with an only-list names
// a module outside the given internal set. Such imports escalate the
// translation effort of every unit cut from this module.
func (m *ModuleRecord) HasUnresolvedOnly(internal map[string]*ModuleRecord) bool {
	for _, u := range m.Uses {
		if len(u.Only) == 0 {
			continue
		}
		if _, ok := internal[Normalize(u.Module)]; !ok {
			return true
		}
	}
	return false
}

// TranslationUnit is a bounded-size, ordered group of one module's entities:
// the unit of incremental rewriting. A module may produce several units but
// a unit never spans modules.
type TranslationUnit struct {
	Module    string   `json:"module"`
	Entities  []string `json:"entities"`
	LineCount int      `json:"line_count"`
	Effort    Effort   `json:"effort"`

	// Oversized marks a single-entity unit whose entity alone exceeds the
	// configured line budget.
	Oversized bool `json:"oversized,omitempty"`
}

// Collision records a module name defined in more than one file. The first
// file in ascending path order stays canonical.
type Collision struct {
	Name          string   `json:"name"`
	CanonicalFile string   `json:"canonical_file"`
	DuplicateIn   []string `json:"duplicate_in"`
}

// ParseFailure records a file that could not be read or decoded. Failures
// never abort a run; they are tallied and reported.
type ParseFailure struct {
	FilePath string `json:"file"`
	Reason   string `json:"reason"`
}
