package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	ID     int
	UserID string
	Role   string
}

func (row) TableName() string { return "transcript_entries" }

func TestApply_BuildsTranscriptQuery(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var rows []row
	stmt := Apply(db.Model(&row{}),
		ByUserID{UserID: "u1"},
		ByRole{Role: "user"},
		OrderBy{Field: "created_at"},
		Pagination{Limit: 10},
	).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "user_id = $1")
	assert.Contains(t, sql, "role = $2")
	assert.Contains(t, sql, "ORDER BY created_at ASC")
	assert.Contains(t, sql, "LIMIT")
	if assert.GreaterOrEqual(t, len(stmt.Vars), 2) {
		assert.Equal(t, "u1", stmt.Vars[0])
		assert.Equal(t, "user", stmt.Vars[1])
	}
}
