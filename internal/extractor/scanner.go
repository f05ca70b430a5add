// Package extractor turns raw Fortran source text into per-file draft module
// records. Scanning is split into independent passes: comment and directive
// stripping, line classification into a stream of (kind, name, line) events,
// and reserved-keyword rejection. Assembly of events into entities with
// resolved line spans lives in extractor.go.
package extractor

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/fortranmap/internal/model"
)

// EventKind classifies one recognized source line.
type EventKind int

const (
	EventModule EventKind = iota
	EventEndModule
	EventUse
	EventSubroutine
	EventEndSubroutine
	EventFunction
	EventEndFunction
	EventType
	EventEndType
	EventInterface
	EventEndInterface
	// EventEnd is a bare "end" statement, closing the innermost construct.
	EventEnd
)

// Event is one classified declaration or terminator line.
type Event struct {
	Kind EventKind
	Name string // declared name, empty for bare terminators and unnamed interfaces
	Line int    // 1-based

	// Use statement details.
	Only []string

	// Function details.
	ReturnType string
	ResultName string
}

// IsOpener reports whether the event starts a construct with a matching end.
func (e Event) IsOpener() bool {
	switch e.Kind {
	case EventModule, EventSubroutine, EventFunction, EventType, EventInterface:
		return true
	}
	return false
}

// reservedNames are keyword-shaped matches that are parsing artifacts, not
// declarations ("module procedure", "type :: private", ...).
var reservedNames = map[string]bool{
	"procedure":  true,
	"subroutine": true,
	"function":   true,
	"public":     true,
	"private":    true,
	"parameter":  true,
}

const procPrefix = `(?:(?:pure|impure|elemental|recursive|module)\s+)*`

var (
	modulePattern = regexp.MustCompile(`(?i)^module\s+(\w+)\b`)
	usePattern    = regexp.MustCompile(`(?i)^use\b\s*(?:,\s*(?:intrinsic|non_intrinsic)\s*)?(?:::)?\s*(\w+)(?:\s*,\s*only\s*:\s*(.*))?`)
	subPattern    = regexp.MustCompile(`(?i)^` + procPrefix + `subroutine\s+(\w+)`)
	funcPattern   = regexp.MustCompile(`(?i)^` + procPrefix +
		`((?:integer|real|logical|complex|character|double\s+precision|type|class)(?:\s*\([^)]*\))?\s+)?` +
		`function\s+(\w+)\s*(?:\([^)]*\))?(?:\s*result\s*\(\s*(\w+)\s*\))?`)
	typePattern = regexp.MustCompile(`(?i)^type\s*(?:,[\w\s,()=:]*)?(?:::\s*|\s+)(\w+)`)
	// Any interface statement opens a block, but only the plain-identifier
	// form carries a recordable generic name. Operator and assignment forms
	// ("interface operator(+)", "interface assignment(=)") stay unnamed.
	interfacePattern     = regexp.MustCompile(`(?i)^(?:abstract\s+)?interface\b`)
	interfaceNamePattern = regexp.MustCompile(`(?i)^(?:abstract\s+)?interface\s+(\w+)\s*$`)
	endPattern           = regexp.MustCompile(`(?i)^end(?:\s*(module|submodule|subroutine|function|type|interface|program))?(?:\s+(\w+))?\s*$`)
)

// Scan classifies the given source text into an ordered event stream and
// returns it with the file's total line count. The scan is pure: identical
// input yields an identical stream.
func Scan(content string) ([]Event, int) {
	lines := strings.Split(content, "\n")
	var events []Event

	for i, raw := range lines {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if ev, ok := classify(line, i+1); ok {
			events = append(events, ev)
		}
	}

	return events, len(lines)
}

// classify matches one stripped line against the structural patterns.
// Terminators are tried first so that "end function foo" never matches the
// function pattern.
func classify(line string, lineno int) (Event, bool) {
	if m := endPattern.FindStringSubmatch(line); m != nil {
		kind := strings.ToLower(strings.Join(strings.Fields(m[1]), ""))
		switch kind {
		case "module", "submodule":
			return Event{Kind: EventEndModule, Name: model.Normalize(m[2]), Line: lineno}, true
		case "subroutine":
			return Event{Kind: EventEndSubroutine, Name: model.Normalize(m[2]), Line: lineno}, true
		case "function":
			return Event{Kind: EventEndFunction, Name: model.Normalize(m[2]), Line: lineno}, true
		case "type":
			return Event{Kind: EventEndType, Name: model.Normalize(m[2]), Line: lineno}, true
		case "interface":
			return Event{Kind: EventEndInterface, Name: model.Normalize(m[2]), Line: lineno}, true
		case "program":
			return Event{}, false
		default:
			if m[2] != "" {
				// "end do", "end if", "end select", ... control flow, not
				// a construct terminator.
				return Event{}, false
			}
			return Event{Kind: EventEnd, Line: lineno}, true
		}
	}

	if m := usePattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: EventUse, Name: model.Normalize(m[1]), Line: lineno, Only: parseOnlyList(m[2])}, true
	}

	if m := modulePattern.FindStringSubmatch(line); m != nil {
		// "module subroutine"/"module function"/"module procedure" are
		// submodule forms, not module declarations; fall through so the
		// procedure patterns get a look at them.
		if name := model.Normalize(m[1]); !reservedNames[name] {
			return Event{Kind: EventModule, Name: name, Line: lineno}, true
		}
	}

	if m := subPattern.FindStringSubmatch(line); m != nil {
		name := model.Normalize(m[1])
		if reservedNames[name] {
			return Event{}, false
		}
		return Event{Kind: EventSubroutine, Name: m[1], Line: lineno}, true
	}

	if m := funcPattern.FindStringSubmatch(line); m != nil {
		name := model.Normalize(m[2])
		if reservedNames[name] {
			return Event{}, false
		}
		return Event{
			Kind:       EventFunction,
			Name:       m[2],
			Line:       lineno,
			ReturnType: strings.TrimSpace(strings.ToLower(m[1])),
			ResultName: model.Normalize(m[3]),
		}, true
	}

	if interfacePattern.MatchString(line) {
		// Unnamed and operator interface blocks still open a construct, so
		// they are emitted with an empty name to keep span tracking honest.
		var name string
		if m := interfaceNamePattern.FindStringSubmatch(line); m != nil {
			name = m[1]
		}
		return Event{Kind: EventInterface, Name: name, Line: lineno}, true
	}

	if m := typePattern.FindStringSubmatch(line); m != nil {
		rest := strings.TrimSpace(line[4:])
		if strings.HasPrefix(rest, "(") {
			// "type(foo) :: var" is a variable declaration.
			return Event{}, false
		}
		name := model.Normalize(m[1])
		if name == "is" || reservedNames[name] {
			return Event{}, false
		}
		return Event{Kind: EventType, Name: m[1], Line: lineno}, true
	}

	return Event{}, false
}

// stripComment removes trailing "!" comments, ignoring exclamation marks
// inside character literals.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '!':
			return line[:i]
		}
	}
	return line
}

// parseOnlyList splits the tail of "use m, only: a, b => c" into the imported
// names. Renames keep the module-side name (the right-hand side).
func parseOnlyList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, "=>"); idx >= 0 {
			name = strings.TrimSpace(name[idx+2:])
		}
		// Drop trailing continuation markers on wrapped only-lists.
		name = strings.TrimSuffix(name, "&")
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, model.Normalize(name))
		}
	}
	return names
}
