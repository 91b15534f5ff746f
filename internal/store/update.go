package store

import (
	"fmt"
	"strings"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
)

// field describes one permitted column of a partial update. value is the
// caller's sparse payload entry: nil means the field is absent, non-nil
// means the caller intends to set it. Normalization runs before
// validation; both are optional.
type field struct {
	column    string
	value     *string
	normalize func(string) string
	validate  func(string) error

	// nullIfEmpty binds SQL NULL when the normalized value is empty,
	// instead of the empty string. Used for clearable columns.
	nullIfEmpty bool
}

// updateBuilder assembles the SET clause and the positional argument list
// of a single UPDATE statement. Placeholders are assigned sequentially
// starting at $1 in field declaration order, so the statement shape is
// deterministic for a given present-field set. The builder never touches
// the store; a validation failure happens before any statement exists.
type updateBuilder struct {
	set  []string
	args []any
}

// buildUpdate runs every permitted field through normalize and validate,
// collecting the present ones. It fails on the first invalid field.
func buildUpdate(fields ...field) (*updateBuilder, error) {
	b := &updateBuilder{}
	for _, f := range fields {
		if err := b.addField(f); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *updateBuilder) addField(f field) error {
	if f.value == nil {
		return nil
	}
	v := *f.value
	if f.normalize != nil {
		v = f.normalize(v)
	}
	if f.validate != nil {
		if err := f.validate(v); err != nil {
			return err
		}
	}
	if f.nullIfEmpty && v == "" {
		b.addValue(f.column, nil)
		return nil
	}
	b.addValue(f.column, v)
	return nil
}

// addValue appends a pre-validated column assignment. Used by callers for
// values that are not plain payload strings, like a freshly hashed
// password.
func (b *updateBuilder) addValue(column string, v any) {
	b.args = append(b.args, v)
	b.set = append(b.set, column+" = "+placeholder(len(b.args)))
}

// requireFields fails when no permitted field was present in the payload.
// An update with zero effective fields is invalid, not a no-op.
func (b *updateBuilder) requireFields() error {
	if len(b.args) == 0 {
		return repository.NewValidationError("", "no fields to update")
	}
	return nil
}

// whereArg appends a row-identifying predicate argument (id, owner id)
// after the value arguments and returns its placeholder position.
func (b *updateBuilder) whereArg(v any) int {
	b.args = append(b.args, v)
	return len(b.args)
}

// setClause returns the assembled "col = $n, ..." fragment.
func (b *updateBuilder) setClause() string {
	return strings.Join(b.set, ", ")
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// nonEmpty returns a validator failing with "<label> cannot be empty".
func nonEmpty(fieldName, label string) func(string) error {
	return func(v string) error {
		if v == "" {
			return repository.NewValidationError(fieldName, label+" cannot be empty")
		}
		return nil
	}
}

// oneOf returns a validator restricting the value to an enumerated set.
func oneOf(fieldName, reason string, allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return repository.NewValidationError(fieldName, reason)
	}
}
