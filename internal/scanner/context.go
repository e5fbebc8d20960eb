package scanner

import "strings"

// queryOrigins are the element query entry points we treat as producing an
// unbounded result set unless narrowed or limited.
var queryOrigins = []string{
	"craft.entries(",
	"craft.assets(",
	"craft.users(",
	"craft.categories(",
	"craft.tags(",
	"craft.globalSets(",
	"craft.matrixBlocks(",
}

func isQueryOrigin(expr string) bool {
	for _, o := range queryOrigins {
		if strings.Contains(expr, o) {
			return true
		}
	}
	return false
}

type queryAssignment struct {
	source string // resolved query expression text
	line   int    // 1-based line of the assignment that produced it
}

// queryTracker resolves variable aliasing so a loop's iterable can be traced
// back to the query call that produced it. Chaining resolves through one
// dictionary lookup: a tracked base plus a suffix, captured at assignment
// time. It never re-parses the base expression recursively.
type queryTracker struct {
	vars map[string]queryAssignment
}

func newQueryTracker() *queryTracker {
	return &queryTracker{vars: make(map[string]queryAssignment)}
}

// track records varName if its right-hand side chains off an already-tracked
// variable (takes precedence) or textually contains a query origin call.
// Anything else is not a query assignment and is ignored.
func (t *queryTracker) track(varName, rhs string, line int) {
	if dot := strings.Index(rhs, "."); dot > 0 {
		base := rhs[:dot]
		if isIdent(base) {
			if qa, ok := t.vars[base]; ok {
				t.vars[varName] = queryAssignment{source: qa.source + rhs[dot:], line: line}
				return
			}
		}
	}
	if isQueryOrigin(rhs) {
		t.vars[varName] = queryAssignment{source: rhs, line: line}
	}
}

func (t *queryTracker) resolve(name string) (queryAssignment, bool) {
	qa, ok := t.vars[name]
	return qa, ok
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// loopContext is the single currently-open loop. Entering a nested loop
// overwrites it and endfor clears whatever is active; the outer context is
// not restored.
type loopContext struct {
	active          bool
	startLine       int
	variable        string
	querySource     string
	queryLine       int
	hasEagerLoading bool
}

// formContext is the currently-open HTML form, evaluated when it closes.
type formContext struct {
	open      bool
	startLine int
	startText string
	sawCSRF   bool
	isGet     bool
}

// loadingSummary accumulates eager-loading usage for the whole file and is
// consulted once at end-of-file.
type loadingSummary struct {
	usesWith     bool
	usesEagerly  bool
	withLines    []int
	eagerlyLines []int
}
