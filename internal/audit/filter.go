package audit

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// Filter selects records with a CEL expression over:
//
//	machine, user, timestamp  string
//	index                     int (0 = oldest)
//	unix_ms                   int (parsed timestamp, 0 if unparsable)
//
// An empty expression matches everything.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// NewFilter compiles expr.
func NewFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("machine", cel.StringType),
		cel.Variable("user", cel.StringType),
		cel.Variable("timestamp", cel.StringType),
		cel.Variable("index", cel.IntType),
		cel.Variable("unix_ms", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Filter{}, &FilterTypeError{Expr: expr, Type: ast.OutputType().String()}
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// FilterTypeError is returned when an expression does not yield a bool.
type FilterTypeError struct {
	Expr string
	Type string
}

func (e *FilterTypeError) Error() string {
	return "filter " + e.Expr + " evaluates to " + e.Type + ", want bool"
}

// Match evaluates the filter against r at position index.
func (f Filter) Match(index int, r Record) bool {
	if !f.enabled {
		return true
	}
	var ms int64
	if ts, err := time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local); err == nil {
		ms = ts.UnixMilli()
	}
	out, _, err := f.prog.Eval(map[string]any{
		"machine":   r.MachineName,
		"user":      r.UserName,
		"timestamp": r.Timestamp,
		"index":     int64(index),
		"unix_ms":   ms,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// DisplayLinesMatching renders matching records newest first.
func (t *Table) DisplayLinesMatching(f Filter) []string {
	lines := make([]string, 0, len(t.records))
	for i := len(t.records) - 1; i >= 0; i-- {
		if f.Match(i, *t.records[i]) {
			lines = append(lines, t.records[i].String())
		}
	}
	return lines
}
