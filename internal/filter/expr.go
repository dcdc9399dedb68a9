package filter

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/cel-go/cel"

	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/eventstore"
)

// Expr is a compiled CEL predicate over a record. The expression sees:
//
//	category, event_type, machine, before, after, source, destination,
//	error, timestamp (string); success (bool); processing_ms (double);
//	details (map, empty when absent)
type Expr struct {
	prog cel.Program
}

// Compile parses and type-checks expr. The expression must yield a bool.
func Compile(expr string) (Expr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Expr{}, errors.Wrap(eventstore.ErrInvalidArgument, "empty filter expression")
	}
	env, err := cel.NewEnv(
		cel.Variable("category", cel.StringType),
		cel.Variable("event_type", cel.StringType),
		cel.Variable("machine", cel.StringType),
		cel.Variable("before", cel.StringType),
		cel.Variable("after", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("destination", cel.StringType),
		cel.Variable("error", cel.StringType),
		cel.Variable("timestamp", cel.StringType),
		cel.Variable("success", cel.BoolType),
		cel.Variable("processing_ms", cel.DoubleType),
		cel.Variable("details", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return Expr{}, errors.Wrap(err, "build filter environment")
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Expr{}, errors.Wrapf(eventstore.ErrInvalidArgument, "filter expression %q: %v", expr, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return Expr{}, errors.Wrapf(eventstore.ErrInvalidArgument, "filter expression %q must evaluate to bool, got %s", expr, out)
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Expr{}, errors.Wrapf(eventstore.ErrInvalidArgument, "filter expression %q: %v", expr, err)
	}
	return Expr{prog: prog}, nil
}

// Eval reports whether r satisfies the expression. Evaluation errors, such
// as a missing details key, count as no match.
func (e Expr) Eval(r event.Record) bool {
	if e.prog == nil {
		return true
	}
	details := r.Details
	if details == nil {
		details = map[string]any{}
	}
	out, _, err := e.prog.Eval(map[string]any{
		"category":      r.Category,
		"event_type":    r.Type,
		"machine":       r.MachineID,
		"before":        r.StateBefore,
		"after":         r.StateAfter,
		"source":        r.Source,
		"destination":   r.Destination,
		"error":         r.ErrorMessage,
		"timestamp":     r.Timestamp,
		"success":       r.Succeeded(),
		"processing_ms": r.ProcessingTimeMs,
		"details":       details,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Filter keeps the records that satisfy the expression.
func (e Expr) Filter(records []event.Record) []event.Record {
	out := make([]event.Record, 0, len(records))
	for _, r := range records {
		if e.Eval(r) {
			out = append(out, r)
		}
	}
	return out
}
