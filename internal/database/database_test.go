package database_test

import (
	"testing"

	"yamdb/internal/database"
	"yamdb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryMigratesSchema(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasTable("title_genres"))
	assert.True(t, db.Migrator().HasIndex(&models.Review{}, "idx_reviews_author_title"))
	assert.False(t, db.Migrator().HasColumn(&models.Title{}, "rating"))
}

func TestOpenMemoryIsolated(t *testing.T) {
	first, err := database.OpenMemory()
	require.NoError(t, err)
	second, err := database.OpenMemory()
	require.NoError(t, err)

	require.NoError(t, first.Create(&models.Genre{Name: "Drama", Slug: "drama"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.Genre{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open("mysql", "")
	assert.ErrorContains(t, err, "unsupported database driver")
}
