package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

func TestExtract_SingleModule(t *testing.T) {
	src := `module physics
  use constants, only: pi
  implicit none

  type :: particle_t
    real :: mass
  end type particle_t

contains

  subroutine advance(p, dt)
    type(particle_t) :: p
    real :: dt
  end subroutine advance

  real function kinetic(p) result(e)
    type(particle_t) :: p
  end function kinetic

end module physics
`
	result := Extract("src/physics.f90", []byte(src))
	require.Nil(t, result.Failure)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "physics", rec.Name)
	assert.False(t, rec.Synthetic)
	assert.Equal(t, "src/physics.f90", rec.FilePath)
	assert.Equal(t, []model.UseRelation{{Module: "constants", Only: []string{"pi"}}}, rec.Uses)
	assert.Equal(t, []string{"advance"}, rec.Subroutines)
	assert.Equal(t, []string{"kinetic"}, rec.Functions)
	assert.Equal(t, []string{"particle_t"}, rec.Types)

	require.Len(t, rec.Entities, 3)
	typ := rec.Entities[0]
	assert.Equal(t, model.KindDerivedType, typ.Kind)
	assert.Equal(t, 5, typ.LineStart)
	assert.Equal(t, 7, typ.LineEnd)
	assert.Equal(t, "physics", typ.Parent)

	sub := rec.Entities[1]
	assert.Equal(t, model.KindSubroutine, sub.Kind)
	assert.Equal(t, 11, sub.LineStart)
	assert.Equal(t, 14, sub.LineEnd)
	assert.Equal(t, 4, sub.Lines())

	fn := rec.Entities[2]
	assert.Equal(t, model.KindFunction, fn.Kind)
	assert.Equal(t, "real", fn.ReturnType)
	assert.Equal(t, "e", fn.ResultName)
}

func TestExtract_MultipleModulesOneFile(t *testing.T) {
	src := `module alpha
contains
  subroutine a_work()
  end subroutine a_work
end module alpha

module beta
  use alpha
contains
  subroutine b_work()
  end subroutine b_work
end module beta
`
	result := Extract("src/pair.f90", []byte(src))
	require.Len(t, result.Records, 2)

	assert.Equal(t, "alpha", result.Records[0].Name)
	assert.Equal(t, []string{"a_work"}, result.Records[0].Subroutines)
	assert.Equal(t, "beta", result.Records[1].Name)
	assert.Equal(t, []string{"b_work"}, result.Records[1].Subroutines)
	require.Len(t, result.Records[1].Uses, 1)
	assert.Equal(t, "alpha", result.Records[1].Uses[0].Module)
}

func TestExtract_FileScopeEntities(t *testing.T) {
	src := `module core
end module core

subroutine standalone(x)
  real :: x
end subroutine standalone
`
	result := Extract("src/solver_utils.f90", []byte(src))
	require.Len(t, result.Records, 2)

	assert.Equal(t, "core", result.Records[0].Name)

	syn := result.Records[1]
	assert.True(t, syn.Synthetic)
	assert.Equal(t, "solver_utils", syn.Name)
	assert.Equal(t, []string{"standalone"}, syn.Subroutines)
	require.Len(t, syn.Entities, 1)
	assert.Empty(t, syn.Entities[0].Parent)
}

func TestExtract_NoModulesAtAll(t *testing.T) {
	result := Extract("src/Main-Prog.f90", []byte("program main\nend program main\n"))
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.True(t, rec.Synthetic)
	assert.Equal(t, "main_prog", rec.Name)
	assert.Empty(t, rec.Entities)
	assert.Empty(t, rec.Subroutines)
}

func TestExtract_UnterminatedModule(t *testing.T) {
	src := `module broken
contains
  subroutine leftover()
`
	result := Extract("src/broken.f90", []byte(src))
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "broken", rec.Name)
	require.Len(t, rec.Entities, 1)
	assert.True(t, rec.Entities[0].Unterminated)
	assert.Equal(t, result.LineCount, rec.Entities[0].LineEnd)
}

func TestExtract_NestedProcedureSpans(t *testing.T) {
	src := `module nest
contains
  subroutine outer()
  contains
    subroutine inner()
    end subroutine inner
  end subroutine outer
end module nest
`
	result := Extract("src/nest.f90", []byte(src))
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	require.Len(t, rec.Entities, 2)
	outer := rec.Entities[0]
	assert.Equal(t, "outer", outer.Name)
	assert.Equal(t, 3, outer.LineStart)
	assert.Equal(t, 7, outer.LineEnd)
	inner := rec.Entities[1]
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, 6, inner.LineEnd)
}

func TestExtract_UnnamedInterfaceSkipped(t *testing.T) {
	src := `module iface
  abstract interface
    subroutine callback(x)
      real :: x
    end subroutine callback
  end interface

  interface swap
    module procedure swap_int
  end interface swap
end module iface
`
	result := Extract("src/iface.f90", []byte(src))
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, []string{"swap"}, rec.Interfaces)
	// The callback subroutine lives inside the abstract interface block but
	// is still attributed to the module.
	assert.Equal(t, []string{"callback"}, rec.Subroutines)
}

func TestExtract_OperatorInterfaceKeepsSpansBalanced(t *testing.T) {
	src := `module ops
  interface operator(+)
    module procedure add_vec
  end interface
contains
  subroutine combine(a, b)
    interface assignment(=)
      module procedure assign_vec
    end interface
  end subroutine combine
end module ops
`
	result := Extract("src/ops.f90", []byte(src))
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Empty(t, rec.Interfaces, "operator and assignment interfaces carry no generic name")

	require.Len(t, rec.Entities, 1)
	combine := rec.Entities[0]
	assert.Equal(t, "combine", combine.Name)
	assert.Equal(t, 6, combine.LineStart)
	assert.Equal(t, 10, combine.LineEnd, "the interface block must not consume the subroutine's terminator")
	assert.False(t, combine.Unterminated)
}

func TestExtractFile_ReadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		result := ExtractFile(filepath.Join(dir, "nope.f90"))
		require.NotNil(t, result.Failure)
		assert.Contains(t, result.Failure.Reason, "read:")
	})

	t.Run("binary content", func(t *testing.T) {
		path := filepath.Join(dir, "junk.f90")
		require.NoError(t, os.WriteFile(path, []byte{'m', 0x00, 'd'}, 0o644))

		result := ExtractFile(path)
		require.NotNil(t, result.Failure)
		assert.Equal(t, "not a text file", result.Failure.Reason)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.f90")
		require.NoError(t, os.WriteFile(path, []byte("module ok\nend module ok\n"), 0o644))

		result := ExtractFile(path)
		require.Nil(t, result.Failure)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "ok", result.Records[0].Name)
	})
}

func TestSyntheticName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/solver_utils.f90", "solver_utils"},
		{"src/Main-Prog.F90", "main_prog"},
		{"weird name.f", "weird_name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, syntheticName(tt.path), "path: %s", tt.path)
	}
}
