package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

// FileResult is the draft output of extracting one source file. A file may
// declare zero or more modules; entities outside every module span are
// collected under a synthetic record named from the file base name.
type FileResult struct {
	FilePath  string
	LineCount int
	Records   []*model.ModuleRecord
	Failure   *model.ParseFailure
}

// ExtractFile reads and extracts one file. Read and decode errors are
// downgraded to a recorded failure; the caller keeps going.
func ExtractFile(path string) *FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return &FileResult{
			FilePath: path,
			Failure:  &model.ParseFailure{FilePath: path, Reason: fmt.Sprintf("read: %v", err)},
		}
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return &FileResult{
			FilePath: path,
			Failure:  &model.ParseFailure{FilePath: path, Reason: "not a text file"},
		}
	}
	return Extract(path, content)
}

// Extract is the pure extraction function: given one file's bytes it always
// produces the same draft records. Safe to fan out across files.
func Extract(path string, content []byte) *FileResult {
	events, lineCount := Scan(string(content))

	result := &FileResult{FilePath: path, LineCount: lineCount}

	type span struct {
		start, end   int
		unterminated bool
	}

	// Resolve module spans first so entities and uses can be attributed to
	// their enclosing module.
	type moduleFrame struct {
		record *model.ModuleRecord
		span   span
	}
	var modules []moduleFrame
	for i, ev := range events {
		if ev.Kind != EventModule {
			continue
		}
		end, ok := resolveSpan(events, i, lineCount)
		modules = append(modules, moduleFrame{
			record: &model.ModuleRecord{
				Name:        ev.Name,
				FilePath:    path,
				LineCount:   lineCount,
				Uses:        []model.UseRelation{},
				Subroutines: []string{},
				Functions:   []string{},
				Types:       []string{},
			},
			span: span{start: ev.Line, end: end, unterminated: !ok},
		})
	}

	// Synthetic record for file-scope declarations. Created lazily, except
	// for files with no modules at all, which always get one (possibly
	// degenerate and empty).
	var synthetic *model.ModuleRecord
	fileScope := func() *model.ModuleRecord {
		if synthetic == nil {
			synthetic = &model.ModuleRecord{
				Name:        syntheticName(path),
				FilePath:    path,
				Synthetic:   true,
				LineCount:   lineCount,
				Uses:        []model.UseRelation{},
				Subroutines: []string{},
				Functions:   []string{},
				Types:       []string{},
			}
		}
		return synthetic
	}

	owner := func(line int) (*model.ModuleRecord, string) {
		for i := len(modules) - 1; i >= 0; i-- {
			if line > modules[i].span.start && line <= modules[i].span.end {
				return modules[i].record, modules[i].record.Name
			}
		}
		return fileScope(), ""
	}

	for i, ev := range events {
		switch ev.Kind {
		case EventUse:
			rec, _ := owner(ev.Line)
			only := ev.Only
			if only == nil {
				only = []string{}
			}
			rec.Uses = append(rec.Uses, model.UseRelation{Module: ev.Name, Only: only})

		case EventSubroutine, EventFunction, EventType, EventInterface:
			if ev.Name == "" {
				continue // unnamed interface block
			}
			rec, parent := owner(ev.Line)
			end, ok := resolveSpan(events, i, lineCount)
			entity := &model.SourceEntity{
				Name:         ev.Name,
				FilePath:     path,
				LineStart:    ev.Line,
				LineEnd:      end,
				Parent:       parent,
				Unterminated: !ok,
			}
			switch ev.Kind {
			case EventSubroutine:
				entity.Kind = model.KindSubroutine
				rec.Subroutines = append(rec.Subroutines, ev.Name)
			case EventFunction:
				entity.Kind = model.KindFunction
				entity.ReturnType = ev.ReturnType
				entity.ResultName = ev.ResultName
				rec.Functions = append(rec.Functions, ev.Name)
			case EventType:
				entity.Kind = model.KindDerivedType
				rec.Types = append(rec.Types, ev.Name)
			case EventInterface:
				entity.Kind = model.KindInterface
				rec.Interfaces = append(rec.Interfaces, ev.Name)
			}
			rec.Entities = append(rec.Entities, entity)
		}
	}

	for _, m := range modules {
		result.Records = append(result.Records, m.record)
	}
	if synthetic == nil && len(modules) == 0 {
		// No modules and no file-scope declarations: degenerate record so
		// the file still shows up in the module map.
		fileScope()
	}
	if synthetic != nil {
		result.Records = append(result.Records, synthetic)
	}

	return result
}

// resolveSpan finds the end line of the construct opened at events[i]. It
// scans forward keeping a nesting depth: every opener increments, every
// terminator at depth > 0 closes an inner construct. The first terminator at
// depth 0 that matches the construct's kind (or a bare "end") ends the span.
// A mismatched terminator at depth 0 or end of file leaves the construct
// unterminated and the span degrades to end of file.
func resolveSpan(events []Event, i, lineCount int) (end int, terminated bool) {
	open := events[i]
	depth := 0
	for j := i + 1; j < len(events); j++ {
		ev := events[j]
		switch {
		case ev.IsOpener():
			depth++
		case isTerminator(ev.Kind):
			if depth > 0 {
				depth--
				continue
			}
			if ev.Kind == EventEnd || ev.Kind == matchingEnd(open.Kind) {
				return ev.Line, true
			}
			// A shallower construct closed before ours did.
			return lineCount, false
		}
	}
	return lineCount, false
}

func isTerminator(k EventKind) bool {
	switch k {
	case EventEnd, EventEndModule, EventEndSubroutine, EventEndFunction, EventEndType, EventEndInterface:
		return true
	}
	return false
}

func matchingEnd(k EventKind) EventKind {
	switch k {
	case EventModule:
		return EventEndModule
	case EventSubroutine:
		return EventEndSubroutine
	case EventFunction:
		return EventEndFunction
	case EventType:
		return EventEndType
	case EventInterface:
		return EventEndInterface
	}
	return EventEnd
}

var nonIdent = regexp.MustCompile(`\W+`)

// syntheticName derives a module name for file-scope declarations from the
// file's base name: "solver_utils.f90" -> "solver_utils".
func syntheticName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := nonIdent.ReplaceAllString(model.Normalize(base), "_")
	if name == "" {
		name = "unnamed"
	}
	return name
}
