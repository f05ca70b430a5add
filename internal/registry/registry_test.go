package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortranmap/internal/extractor"
	"github.com/leapstack-labs/fortranmap/internal/model"
)

func record(name, file string) *model.ModuleRecord {
	return &model.ModuleRecord{Name: name, FilePath: file}
}

func TestModuleRegistry_AddAll(t *testing.T) {
	r := NewModuleRegistry()
	r.AddAll([]*extractor.FileResult{
		{FilePath: "src/a.f90", Records: []*model.ModuleRecord{record("alpha", "src/a.f90")}},
		{FilePath: "src/b.f90", Records: []*model.ModuleRecord{record("beta", "src/b.f90"), record("gamma", "src/b.f90")}},
	})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())

	got, ok := r.Get("Alpha")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "src/a.f90", got.FilePath)

	_, ok = r.Get("delta")
	assert.False(t, ok)
}

func TestModuleRegistry_FirstFileWins(t *testing.T) {
	r := NewModuleRegistry()
	r.AddAll([]*extractor.FileResult{
		{FilePath: "src/a.f90", Records: []*model.ModuleRecord{record("solver", "src/a.f90")}},
		{FilePath: "src/b.f90", Records: []*model.ModuleRecord{record("solver", "src/b.f90")}},
		{FilePath: "src/c.f90", Records: []*model.ModuleRecord{record("solver", "src/c.f90")}},
	})

	assert.Equal(t, 1, r.Len())
	got, _ := r.Get("solver")
	assert.Equal(t, "src/a.f90", got.FilePath, "first file in path order stays canonical")

	collisions := r.Collisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, "solver", collisions[0].Name)
	assert.Equal(t, "src/a.f90", collisions[0].CanonicalFile)
	assert.Equal(t, []string{"src/b.f90", "src/c.f90"}, collisions[0].DuplicateIn)
}

func TestModuleRegistry_SkipsFailedFiles(t *testing.T) {
	r := NewModuleRegistry()
	r.AddAll([]*extractor.FileResult{
		{
			FilePath: "src/bad.f90",
			Failure:  &model.ParseFailure{FilePath: "src/bad.f90", Reason: "not a text file"},
			Records:  []*model.ModuleRecord{record("ghost", "src/bad.f90")},
		},
		{FilePath: "src/ok.f90", Records: []*model.ModuleRecord{record("ok", "src/ok.f90")}},
	})

	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("ghost")
	assert.False(t, ok, "records of failed files are discarded")
}

func TestModuleRegistry_CollisionsSorted(t *testing.T) {
	r := NewModuleRegistry()
	r.AddAll([]*extractor.FileResult{
		{FilePath: "src/1.f90", Records: []*model.ModuleRecord{record("zeta", "src/1.f90"), record("alpha", "src/1.f90")}},
		{FilePath: "src/2.f90", Records: []*model.ModuleRecord{record("zeta", "src/2.f90"), record("alpha", "src/2.f90")}},
	})

	collisions := r.Collisions()
	require.Len(t, collisions, 2)
	assert.Equal(t, "alpha", collisions[0].Name)
	assert.Equal(t, "zeta", collisions[1].Name)
}
