package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
)

func strptr(s string) *string { return &s }

func TestBuildUpdate_DeclarationOrder(t *testing.T) {
	b, err := buildUpdate(
		field{column: "name", value: strptr("Alice")},
		field{column: "email", value: strptr("alice@example.com")},
	)
	require.NoError(t, err)
	require.Equal(t, "name = $1, email = $2", b.setClause())
	require.Equal(t, []any{"Alice", "alice@example.com"}, b.args)
}

func TestBuildUpdate_AbsentFieldsSkipped(t *testing.T) {
	b, err := buildUpdate(
		field{column: "name", value: nil},
		field{column: "email", value: strptr("alice@example.com")},
	)
	require.NoError(t, err)
	require.Equal(t, "email = $1", b.setClause())
	require.Equal(t, []any{"alice@example.com"}, b.args)
}

func TestBuildUpdate_NormalizeThenValidate(t *testing.T) {
	b, err := buildUpdate(
		field{column: "name", value: strptr("  Alice  "), normalize: strings.TrimSpace, validate: nonEmpty("name", "name")},
	)
	require.NoError(t, err)
	require.Equal(t, []any{"Alice"}, b.args)

	// an explicitly present empty value fails after normalization
	_, err = buildUpdate(
		field{column: "name", value: strptr("   "), normalize: strings.TrimSpace, validate: nonEmpty("name", "name")},
	)
	require.Error(t, err)
	require.True(t, repository.IsValidation(err))

	var verr *repository.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "name", verr.Field)
}

func TestBuildUpdate_FailsOnFirstInvalidField(t *testing.T) {
	_, err := buildUpdate(
		field{column: "name", value: strptr(""), validate: nonEmpty("name", "name")},
		field{column: "email", value: strptr("ok@example.com")},
	)
	require.True(t, repository.IsValidation(err))
}

func TestBuildUpdate_NullIfEmpty(t *testing.T) {
	b, err := buildUpdate(
		field{column: "assigned_to", value: strptr(""), nullIfEmpty: true},
	)
	require.NoError(t, err)
	require.Equal(t, "assigned_to = $1", b.setClause())
	require.Equal(t, []any{nil}, b.args)

	b, err = buildUpdate(
		field{column: "assigned_to", value: strptr("some-user"), nullIfEmpty: true},
	)
	require.NoError(t, err)
	require.Equal(t, []any{"some-user"}, b.args)
}

func TestBuildUpdate_OneOf(t *testing.T) {
	validate := oneOf("status", "invalid status", "todo", "done")

	b, err := buildUpdate(field{column: "status", value: strptr("done"), validate: validate})
	require.NoError(t, err)
	require.Equal(t, []any{"done"}, b.args)

	_, err = buildUpdate(field{column: "status", value: strptr("archived"), validate: validate})
	require.True(t, repository.IsValidation(err))
}

func TestRequireFields(t *testing.T) {
	b, err := buildUpdate(
		field{column: "name", value: nil},
		field{column: "email", value: nil},
	)
	require.NoError(t, err)
	err = b.requireFields()
	require.True(t, repository.IsValidation(err))
	require.Contains(t, err.Error(), "no fields to update")

	b.addValue("password_hash", "x")
	require.NoError(t, b.requireFields())
}

func TestWhereArg_PositionsFollowValues(t *testing.T) {
	b, err := buildUpdate(
		field{column: "name", value: strptr("A")},
		field{column: "email", value: strptr("a@b.co")},
	)
	require.NoError(t, err)

	idPos := b.whereArg("row-id")
	ownerPos := b.whereArg("owner-id")
	require.Equal(t, 3, idPos)
	require.Equal(t, 4, ownerPos)
	require.Equal(t, []any{"A", "a@b.co", "row-id", "owner-id"}, b.args)
}

func TestAddValue_AppendsAfterPayloadFields(t *testing.T) {
	b, err := buildUpdate(field{column: "name", value: strptr("A")})
	require.NoError(t, err)
	b.addValue("password_hash", "hashed")
	require.Equal(t, "name = $1, password_hash = $2", b.setClause())
	require.Equal(t, []any{"A", "hashed"}, b.args)
}
