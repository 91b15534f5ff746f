package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
	"github.com/dropDatabas3/taskhub/internal/security/password"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(plain)
	require.NoError(t, err)
	return h
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestUserRegister_ValidationNeverHitsStore(t *testing.T) {
	db := &fakeDB{}
	s := NewUserStore(db)
	ctx := context.Background()

	cases := []repository.RegisterUserInput{
		{Name: "  ", Email: "a@b.co", Password: "Passw0rd1"},
		{Name: "Alice", Email: "not-an-email", Password: "Passw0rd1"},
		{Name: "Alice", Email: "a@b.co", Password: "weak"},
		{Name: "Alice", Email: "a@b.co", Password: "nouppercase1"},
		{Name: "Alice", Email: "a@b.co", Password: "NoDigitsHere"},
	}
	for _, in := range cases {
		_, err := s.Register(ctx, in)
		require.True(t, repository.IsValidation(err), "input %+v", in)
	}
	require.Empty(t, db.calls, "validation failures must not issue statements")
}

func TestUserRegister_NormalizesAndHashes(t *testing.T) {
	db := &fakeDB{}
	db.queueRow("id-1", "Alice", "alice@example.com")
	s := NewUserStore(db)

	u, err := s.Register(context.Background(), repository.RegisterUserInput{
		Name:     "  Alice  ",
		Email:    " Alice@Example.Com ",
		Password: "Passw0rd1",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)
	require.Equal(t, "alice@example.com", u.Email)

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	require.Contains(t, normSQL(call.sql), "INSERT INTO users (id, name, email, password_hash)")
	require.Contains(t, normSQL(call.sql), "RETURNING id, name, email")
	require.Len(t, call.args, 4)
	require.Equal(t, "Alice", call.args[1])
	require.Equal(t, "alice@example.com", call.args[2])

	// stored credential is a verifiable hash, never the plaintext
	stored, ok := call.args[3].(string)
	require.True(t, ok)
	require.NotEqual(t, "Passw0rd1", stored)
	require.True(t, password.Verify("Passw0rd1", stored))
}

func TestUserRegister_DuplicateEmail(t *testing.T) {
	db := &fakeDB{}
	db.queueRowErr(uniqueViolation("users_email_key"))
	s := NewUserStore(db)

	_, err := s.Register(context.Background(), repository.RegisterUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "Passw0rd1",
	})
	require.True(t, repository.IsConflict(err))

	var cerr *repository.ConflictError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "email", cerr.Field)
}

func TestUserLogin(t *testing.T) {
	hash := mustHash(t, "Passw0rd1")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow("id-1", "Alice", "alice@example.com", hash)
		u, err := NewUserStore(db).Login(ctx, " Alice@Example.Com ", "Passw0rd1")
		require.NoError(t, err)
		require.Equal(t, "id-1", u.ID)
		// lookup uses the normalized email
		require.Equal(t, []any{"alice@example.com"}, db.calls[0].args)
	})

	t.Run("unknown email", func(t *testing.T) {
		db := &fakeDB{}
		_, err := NewUserStore(db).Login(ctx, "ghost@example.com", "Passw0rd1")
		require.True(t, repository.IsInvalidCredentials(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow("id-1", "Alice", "alice@example.com", hash)
		_, err := NewUserStore(db).Login(ctx, "alice@example.com", "WrongPass1")
		require.True(t, repository.IsInvalidCredentials(err))
	})
}

func TestUserGet_NotFound(t *testing.T) {
	db := &fakeDB{}
	_, err := NewUserStore(db).Get(context.Background(), "missing-id")
	require.True(t, repository.IsNotFound(err))
}

func TestUserUpdate_EmptyPayload(t *testing.T) {
	db := &fakeDB{}
	_, err := NewUserStore(db).Update(context.Background(), "id-1", repository.UpdateUserInput{})
	require.True(t, repository.IsValidation(err))
	require.Contains(t, err.Error(), "no fields to update")
	require.Empty(t, db.calls)
}

func TestUserUpdate_NameAndEmail(t *testing.T) {
	db := &fakeDB{}
	db.queueRow("id-1", "Bob", "bob@example.com")

	u, err := NewUserStore(db).Update(context.Background(), "id-1", repository.UpdateUserInput{
		Name:  strptr(" Bob "),
		Email: strptr(" Bob@Example.Com "),
	})
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", u.Email)

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	require.Equal(t,
		"UPDATE users SET name = $1, email = $2 WHERE id = $3 RETURNING id, name, email",
		normSQL(call.sql),
	)
	require.Equal(t, []any{"Bob", "bob@example.com", "id-1"}, call.args)
}

func TestUserUpdate_EmailConflict(t *testing.T) {
	db := &fakeDB{}
	db.queueRowErr(uniqueViolation("users_email_key"))
	_, err := NewUserStore(db).Update(context.Background(), "id-1", repository.UpdateUserInput{
		Email: strptr("taken@example.com"),
	})
	require.True(t, repository.IsConflict(err))
}

func TestUserUpdate_PasswordRotation(t *testing.T) {
	ctx := context.Background()
	oldHash := mustHash(t, "OldPass1")

	t.Run("missing current password", func(t *testing.T) {
		db := &fakeDB{}
		_, err := NewUserStore(db).Update(ctx, "id-1", repository.UpdateUserInput{
			NewPassword: strptr("NewPass1"),
		})
		require.True(t, repository.IsValidation(err))
		require.Empty(t, db.calls)
	})

	t.Run("weak new password", func(t *testing.T) {
		db := &fakeDB{}
		_, err := NewUserStore(db).Update(ctx, "id-1", repository.UpdateUserInput{
			NewPassword:     strptr("weak"),
			CurrentPassword: strptr("OldPass1"),
		})
		require.True(t, repository.IsValidation(err))
		require.Empty(t, db.calls)
	})

	t.Run("wrong current password leaves hash untouched", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow(oldHash)
		_, err := NewUserStore(db).Update(ctx, "id-1", repository.UpdateUserInput{
			NewPassword:     strptr("NewPass1"),
			CurrentPassword: strptr("WrongOld1"),
		})
		require.True(t, repository.IsInvalidCredentials(err))
		// only the hash lookup ran, never the UPDATE
		require.Len(t, db.calls, 1)
		require.Contains(t, db.calls[0].sql, "SELECT password_hash")
	})

	t.Run("target vanished between lookup and verify", func(t *testing.T) {
		db := &fakeDB{}
		_, err := NewUserStore(db).Update(ctx, "id-1", repository.UpdateUserInput{
			NewPassword:     strptr("NewPass1"),
			CurrentPassword: strptr("OldPass1"),
		})
		require.True(t, repository.IsNotFound(err))
	})

	t.Run("success", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow(oldHash)
		db.queueRow("id-1", "Alice", "alice@example.com")

		_, err := NewUserStore(db).Update(ctx, "id-1", repository.UpdateUserInput{
			NewPassword:     strptr("NewPass1"),
			CurrentPassword: strptr("OldPass1"),
		})
		require.NoError(t, err)
		require.Len(t, db.calls, 2)

		update := db.calls[1]
		require.Equal(t,
			"UPDATE users SET password_hash = $1 WHERE id = $2 RETURNING id, name, email",
			normSQL(update.sql),
		)
		newHash, ok := update.args[0].(string)
		require.True(t, ok)
		require.True(t, password.Verify("NewPass1", newHash))
		require.False(t, password.Verify("OldPass1", newHash))
	})
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "Passw0rd1")

	t.Run("password required", func(t *testing.T) {
		db := &fakeDB{}
		err := NewUserStore(db).Delete(ctx, "id-1", "")
		require.True(t, repository.IsValidation(err))
		require.Empty(t, db.calls)
	})

	t.Run("wrong password", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow(hash)
		err := NewUserStore(db).Delete(ctx, "id-1", "WrongPass1")
		require.True(t, repository.IsInvalidCredentials(err))
		require.Len(t, db.calls, 1, "no DELETE after a failed check")
	})

	t.Run("success then not found", func(t *testing.T) {
		db := &fakeDB{}
		db.queueRow(hash)
		db.queueExec("DELETE 1")
		s := NewUserStore(db)
		require.NoError(t, s.Delete(ctx, "id-1", "Passw0rd1"))

		// the row is gone now: the second delete must not silently succeed
		err := s.Delete(ctx, "id-1", "Passw0rd1")
		require.True(t, repository.IsNotFound(err))
	})
}
