package decompose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

func entity(name string, kind model.EntityKind, lines int) *model.SourceEntity {
	return &model.SourceEntity{Name: name, Kind: kind, LineStart: 1, LineEnd: lines}
}

func moduleWith(name string, entities ...*model.SourceEntity) *model.ModuleRecord {
	return &model.ModuleRecord{Name: name, Entities: entities}
}

func TestDecompose_GreedyPacking(t *testing.T) {
	rec := moduleWith("solver",
		entity("s1", model.KindSubroutine, 10),
		entity("s2", model.KindSubroutine, 10),
		entity("s3", model.KindSubroutine, 10),
		entity("s4", model.KindSubroutine, 10),
	)
	mods := map[string]*model.ModuleRecord{"solver": rec}

	units := Decompose([]string{"solver"}, mods, Options{MaxUnitLines: 30, MinChunkLines: 10})
	require.Len(t, units, 2)

	assert.Equal(t, []string{"s1", "s2", "s3"}, units[0].Entities)
	assert.Equal(t, 30, units[0].LineCount)
	assert.Equal(t, []string{"s4"}, units[1].Entities)
	assert.Equal(t, 10, units[1].LineCount)

	for _, u := range units {
		assert.Equal(t, "solver", u.Module)
		assert.False(t, u.Oversized)
	}
}

func TestDecompose_OversizedEntityGetsOwnUnit(t *testing.T) {
	rec := moduleWith("big",
		entity("small", model.KindSubroutine, 5),
		entity("huge", model.KindSubroutine, 40),
		entity("tail", model.KindSubroutine, 5),
	)
	mods := map[string]*model.ModuleRecord{"big": rec}

	units := Decompose([]string{"big"}, mods, Options{MaxUnitLines: 30, MinChunkLines: 10})
	require.Len(t, units, 3)

	assert.Equal(t, []string{"small"}, units[0].Entities)
	assert.Equal(t, []string{"huge"}, units[1].Entities)
	assert.True(t, units[1].Oversized)
	assert.Equal(t, model.EffortHigh, units[1].Effort, "40 lines exceeds two thirds of the budget")
	assert.Equal(t, []string{"tail"}, units[2].Entities)
	assert.False(t, units[2].Oversized)
}

func TestDecompose_MinChunkKeepsUnitOpen(t *testing.T) {
	// The first entity is below the minimum, so the unit must absorb the
	// second one even though that overshoots the budget.
	rec := moduleWith("m",
		entity("tiny", model.KindSubroutine, 5),
		entity("mid", model.KindSubroutine, 28),
	)
	mods := map[string]*model.ModuleRecord{"m": rec}

	units := Decompose([]string{"m"}, mods, Options{MaxUnitLines: 30, MinChunkLines: 10})
	require.Len(t, units, 1)
	assert.Equal(t, []string{"tiny", "mid"}, units[0].Entities)
	assert.Equal(t, 33, units[0].LineCount)
}

func TestDecompose_EffortTriage(t *testing.T) {
	tests := []struct {
		name string
		rec  *model.ModuleRecord
		want model.Effort
	}{
		{
			name: "small procedure-only unit is low",
			rec:  moduleWith("m", entity("s", model.KindSubroutine, 40)),
			want: model.EffortLow,
		},
		{
			name: "small unit with a derived type is medium",
			rec:  moduleWith("m", entity("t", model.KindDerivedType, 40)),
			want: model.EffortMedium,
		},
		{
			name: "unit above two thirds of the budget is high",
			rec:  moduleWith("m", entity("s", model.KindSubroutine, 120)),
			want: model.EffortHigh,
		},
		{
			name: "mid-sized unit is medium",
			rec:  moduleWith("m", entity("s", model.KindSubroutine, 80)),
			want: model.EffortMedium,
		},
	}

	opts := Options{MaxUnitLines: 150, MinChunkLines: 25}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods := map[string]*model.ModuleRecord{"m": tt.rec}
			units := Decompose([]string{"m"}, mods, opts)
			require.Len(t, units, 1)
			assert.Equal(t, tt.want, units[0].Effort)
		})
	}
}

func TestDecompose_UnresolvedOnlyEscalates(t *testing.T) {
	rec := moduleWith("m", entity("s", model.KindSubroutine, 10))
	rec.Uses = []model.UseRelation{{Module: "mystery_lib", Only: []string{"helper"}}}
	mods := map[string]*model.ModuleRecord{"m": rec}

	units := Decompose([]string{"m"}, mods, Options{MaxUnitLines: 150, MinChunkLines: 25})
	require.Len(t, units, 1)
	assert.Equal(t, model.EffortHigh, units[0].Effort,
		"only-imports from an unknown module escalate every unit of the module")
}

func TestDecompose_ResolvedOnlyDoesNotEscalate(t *testing.T) {
	dep := moduleWith("kinds")
	rec := moduleWith("m", entity("s", model.KindSubroutine, 10))
	rec.Uses = []model.UseRelation{{Module: "kinds", Only: []string{"dp"}}}
	mods := map[string]*model.ModuleRecord{"m": rec, "kinds": dep}

	units := Decompose([]string{"kinds", "m"}, mods, Options{MaxUnitLines: 150, MinChunkLines: 25})
	require.Len(t, units, 1)
	assert.Equal(t, model.EffortLow, units[0].Effort)
}

func TestDecompose_FollowsTranslationOrder(t *testing.T) {
	mods := map[string]*model.ModuleRecord{
		"a":     moduleWith("a", entity("a1", model.KindSubroutine, 10)),
		"b":     moduleWith("b", entity("b1", model.KindSubroutine, 10)),
		"empty": moduleWith("empty"),
	}

	units := Decompose([]string{"b", "empty", "a"}, mods, Options{MaxUnitLines: 150, MinChunkLines: 25})
	require.Len(t, units, 2)
	assert.Equal(t, "b", units[0].Module)
	assert.Equal(t, "a", units[1].Module, "modules without entities produce no units")
}

func TestSummarize(t *testing.T) {
	units := []*model.TranslationUnit{
		{LineCount: 10, Effort: model.EffortLow},
		{LineCount: 20, Effort: model.EffortMedium},
		{LineCount: 60, Effort: model.EffortHigh, Oversized: true},
	}

	s := Summarize(units)
	assert.Equal(t, 3, s.TotalUnits)
	assert.Equal(t, map[string]int{"low": 1, "medium": 1, "high": 1}, s.UnitsByEffort)
	assert.Equal(t, 1, s.Oversized)
	assert.InDelta(t, 30.0, s.AverageLines, 0.001)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TotalUnits)
	assert.Equal(t, 0.0, empty.AverageLines)
}
