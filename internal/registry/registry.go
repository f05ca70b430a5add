// Package registry aggregates per-file extraction drafts into one canonical
// ModuleRecord per module name and reports duplicate definitions.
package registry

import (
	"sort"

	"github.com/leapstack-labs/fortranmap/internal/extractor"
	"github.com/leapstack-labs/fortranmap/internal/model"
)

// ModuleRegistry resolves which file defines each module. Duplicate names are
// a reportable condition, never a silent overwrite: the first file in
// ascending path order stays canonical and later definitions are recorded as
// collisions.
type ModuleRegistry struct {
	modules    map[string]*model.ModuleRecord
	collisions map[string]*model.Collision
}

// NewModuleRegistry creates a new empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules:    make(map[string]*model.ModuleRecord),
		collisions: make(map[string]*model.Collision),
	}
}

// AddAll registers the draft records of the given file results. Results must
// already be in ascending path order; the caller owns that ordering so that
// parallel extraction cannot leak nondeterminism into collision resolution.
func (r *ModuleRegistry) AddAll(results []*extractor.FileResult) {
	for _, res := range results {
		if res.Failure != nil {
			continue
		}
		for _, rec := range res.Records {
			r.add(rec)
		}
	}
}

func (r *ModuleRegistry) add(rec *model.ModuleRecord) {
	existing, ok := r.modules[rec.Name]
	if !ok {
		r.modules[rec.Name] = rec
		return
	}

	c, ok := r.collisions[rec.Name]
	if !ok {
		c = &model.Collision{Name: rec.Name, CanonicalFile: existing.FilePath}
		r.collisions[rec.Name] = c
	}
	c.DuplicateIn = append(c.DuplicateIn, rec.FilePath)
}

// Modules returns the canonical record map keyed by normalized module name.
func (r *ModuleRegistry) Modules() map[string]*model.ModuleRecord {
	return r.modules
}

// Get looks up a module by (case-insensitive) name.
func (r *ModuleRegistry) Get(name string) (*model.ModuleRecord, bool) {
	rec, ok := r.modules[model.Normalize(name)]
	return rec, ok
}

// Len returns the number of canonical modules.
func (r *ModuleRegistry) Len() int {
	return len(r.modules)
}

// Collisions returns the duplicate-definition report sorted by module name.
func (r *ModuleRegistry) Collisions() []*model.Collision {
	out := make([]*model.Collision, 0, len(r.collisions))
	for _, c := range r.collisions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all canonical module names in ascending order.
func (r *ModuleRegistry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
