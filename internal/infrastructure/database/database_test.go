package database

import (
	"testing"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewTestDB_CreatesSchema(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)

	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestNewTestDB_TranslatesDuplicateKey(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)

	row := func() *cardentities.CardSubscription {
		return &cardentities.CardSubscription{
			UserID:       7,
			ProjectCode:  "P1",
			Content:      cardentities.StudyReportCard,
			BusinessType: cardentities.BusinessTypeCard,
			Active:       true,
		}
	}

	require.NoError(t, db.Create(row()).Error)
	assert.ErrorIs(t, db.Create(row()).Error, gorm.ErrDuplicatedKey)
}
