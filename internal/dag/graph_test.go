package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

// modules builds a module map from a name -> used-names adjacency spec.
func modules(spec map[string][]string) map[string]*model.ModuleRecord {
	out := make(map[string]*model.ModuleRecord, len(spec))
	for name, uses := range spec {
		rec := &model.ModuleRecord{Name: name}
		for _, u := range uses {
			rec.Uses = append(rec.Uses, model.UseRelation{Module: u})
		}
		out[name] = rec
	}
	return out
}

func TestBuild_SimpleDependency(t *testing.T) {
	g := Build(modules(map[string][]string{
		"a": {"b"},
		"b": {},
	}))

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
	assert.Empty(t, g.Dependencies("b"))
	assert.Equal(t, []string{"a"}, g.Dependents("b"))
	assert.True(t, g.IsDAG())
	assert.Empty(t, g.External())

	assert.Equal(t, map[string][]string{"a": {"b"}}, g.InternalEdges(),
		"modules without dependencies are omitted")

	order, isDAG := g.TranslationOrder()
	assert.True(t, isDAG)
	assert.Equal(t, []string{"b", "a"}, order, "dependencies come first")
}

func TestBuild_ExternalAndSelfEdges(t *testing.T) {
	g := Build(modules(map[string][]string{
		"a": {"a", "iso_fortran_env", "MPI", "b", "b"},
		"b": {},
	}))

	assert.Equal(t, 1, g.EdgeCount(), "self-edges dropped, parallel edges collapsed")
	assert.Equal(t, []string{"iso_fortran_env", "mpi"}, g.External(),
		"external names are normalized and sorted")
}

func TestGraph_Cycles(t *testing.T) {
	g := Build(modules(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}))

	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "a"}, cycles[0],
		"cycle path is closed with its entry node")
	assert.False(t, g.IsDAG())
}

func TestGraph_TranslationOrderBreaksCycles(t *testing.T) {
	// c depends on the a<->b cycle; the order must still be total.
	g := Build(modules(map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"c": {"a"},
	}))

	order, isDAG := g.TranslationOrder()
	assert.False(t, isDAG)
	require.Len(t, order, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, order)

	posOf := func(name string) int {
		for i, n := range order {
			if n == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, posOf("a"), posOf("c"), "c still comes after its dependency a")
}

func TestGraph_TranslationOrderDeterministic(t *testing.T) {
	spec := map[string][]string{
		"kinds":     {},
		"constants": {"kinds"},
		"grid":      {"kinds", "constants"},
		"solver":    {"grid", "io"},
		"io":        {"solver"},
		"main":      {"solver", "grid"},
	}

	first, _ := Build(modules(spec)).TranslationOrder()
	for i := 0; i < 10; i++ {
		again, _ := Build(modules(spec)).TranslationOrder()
		require.Equal(t, first, again, "iteration %d", i)
	}
}

func TestGraph_TopologicalOrderTieBreak(t *testing.T) {
	// Both b and c are ready after a; lowest name goes first.
	g := Build(modules(map[string][]string{
		"b": {"a"},
		"c": {"a"},
		"a": {},
	}))

	order, isDAG := g.TranslationOrder()
	assert.True(t, isDAG)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestGraph_Hubs(t *testing.T) {
	g := Build(modules(map[string][]string{
		"kinds":  {},
		"a":      {"kinds", "utils"},
		"b":      {"kinds", "utils"},
		"c":      {"kinds"},
		"utils":  {"kinds"},
		"orphan": {},
	}))

	assert.Equal(t, []string{"kinds", "utils"}, g.Hubs(2),
		"ranked by in-degree, highest first")
	assert.Equal(t, []string{"kinds"}, g.Hubs(1))
	assert.Nil(t, g.Hubs(0))

	hubs := g.Hubs(10)
	assert.NotContains(t, hubs, "orphan", "modules nothing depends on are never hubs")
	assert.NotContains(t, hubs, "a")
}

func TestGraph_Orphans(t *testing.T) {
	g := Build(modules(map[string][]string{
		"a":      {"b"},
		"b":      {},
		"island": {},
		"remote": {"some_external_lib"},
	}))

	assert.Equal(t, []string{"island", "remote"}, g.Orphans(),
		"external-only dependencies do not connect a module")
}
