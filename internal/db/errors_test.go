package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})

	assert.True(t, IsCode(err, pgerrcode.UniqueViolation))
	assert.False(t, IsCode(err, pgerrcode.ForeignKeyViolation))
	assert.False(t, IsCode(errors.New("boom"), pgerrcode.UniqueViolation))
}

func TestIsMalformedID(t *testing.T) {
	assert.True(t, IsMalformedID(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}))
	assert.False(t, IsMalformedID(nil))
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"users", "tags", "posts", "post_tags", "images"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS public."+table+" (")
	}
}
