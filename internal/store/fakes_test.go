package store

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB is a scripted DBOps implementation. Responses are consumed in
// FIFO order per method; every call is recorded with its statement and
// arguments so tests can assert on statement shape and argument order.
type fakeDB struct {
	calls []dbCall

	rowQueue  []*fakeRow
	rowsQueue []*fakeRows
	execQueue []execResult
}

type dbCall struct {
	sql  string
	args []any
}

type execResult struct {
	tag pgconn.CommandTag
	err error
}

func (f *fakeDB) record(sql string, args []any) {
	f.calls = append(f.calls, dbCall{sql: sql, args: args})
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if len(f.rowQueue) == 0 {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	r := f.rowQueue[0]
	f.rowQueue = f.rowQueue[1:]
	return r
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if len(f.rowsQueue) == 0 {
		return &fakeRows{}, nil
	}
	r := f.rowsQueue[0]
	f.rowsQueue = f.rowsQueue[1:]
	return r, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if len(f.execQueue) == 0 {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	r := f.execQueue[0]
	f.execQueue = f.execQueue[1:]
	return r.tag, r.err
}

func (f *fakeDB) queueRow(vals ...any)     { f.rowQueue = append(f.rowQueue, &fakeRow{vals: vals}) }
func (f *fakeDB) queueRowErr(err error)    { f.rowQueue = append(f.rowQueue, &fakeRow{err: err}) }
func (f *fakeDB) queueExec(tag string)     { f.execQueue = append(f.execQueue, execResult{tag: pgconn.NewCommandTag(tag)}) }
func (f *fakeDB) queueRows(rows ...[]any)  { f.rowsQueue = append(f.rowsQueue, &fakeRows{rows: rows}) }

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignRow(dest, r.vals)
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignRow(dest, r.rows[r.idx-1])
}

// assignRow copies scripted values into scan destinations, covering the
// shapes the stores use: plain values, and pointer destinations for
// NULL-able columns (nil source means SQL NULL).
func assignRow(dest, src []any) error {
	if len(dest) != len(src) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(src))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		el := dv.Elem()
		if src[i] == nil {
			el.Set(reflect.Zero(el.Type()))
			continue
		}
		sv := reflect.ValueOf(src[i])
		switch {
		case sv.Type().AssignableTo(el.Type()):
			el.Set(sv)
		case sv.Type().ConvertibleTo(el.Type()) && el.Kind() != reflect.Pointer:
			el.Set(sv.Convert(el.Type()))
		case el.Kind() == reflect.Pointer && sv.Type().AssignableTo(el.Type().Elem()):
			p := reflect.New(el.Type().Elem())
			p.Elem().Set(sv)
			el.Set(p)
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", src[i], el.Type())
		}
	}
	return nil
}

var wsPattern = regexp.MustCompile(`\s+`)

// normSQL collapses whitespace so statement-shape assertions survive
// formatting.
func normSQL(s string) string {
	return strings.TrimSpace(wsPattern.ReplaceAllString(s, " "))
}
