package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert sale: %w", &pgconn.PgError{Code: "23505"})
	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsSerializationFailure(unique))

	serial := &pgconn.PgError{Code: "40001"}
	require.True(t, IsSerializationFailure(serial))
	require.True(t, IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))

	require.False(t, IsUniqueViolation(errors.New("boom")))
	require.False(t, IsUniqueViolation(nil))
}
