package seed

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestReports(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	rows, err := Reports(DemoAthleteID, 5, now, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for i, row := range rows {
		assert.Equal(t, DemoAthleteID, row.AthleteID)
		assert.Equal(t, now.AddDate(0, 0, -i), row.CreatedAt)
		assert.Equal(t, domain.Classify(row.GlobalScore), row.Classification)
		assert.GreaterOrEqual(t, row.GlobalScore, 0.0)
		assert.LessOrEqual(t, row.GlobalScore, 1.0)

		var v domain.MetricVector
		require.NoError(t, json.Unmarshal(row.Metrics, &v))
		assert.NoError(t, v.Validate())
	}
}

func TestReports_StableIDs(t *testing.T) {
	now := time.Now().UTC()
	first, err := Reports(DemoAthleteID, 3, now, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	second, err := Reports(DemoAthleteID, 3, now, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestReadinessScore_Bounds(t *testing.T) {
	best := domain.MetricVector{Energy: 10, SleepQuality: 10, MentalWellbeing: 10, MuscleSoreness: 1, Stress: 1, Motivation: 10, Fatigue: 1, Focus: 10}
	worst := domain.MetricVector{Energy: 1, SleepQuality: 1, MentalWellbeing: 1, MuscleSoreness: 10, Stress: 10, Motivation: 1, Fatigue: 10, Focus: 1}

	assert.InDelta(t, 1.0, readinessScore(best), 1e-9)
	assert.InDelta(t, 0.0, readinessScore(worst), 1e-9)
	assert.Equal(t, domain.TierGreen, domain.Classify(readinessScore(best)))
	assert.Equal(t, domain.TierRed, domain.Classify(readinessScore(worst)))
}

func TestDemoProfile_Valid(t *testing.T) {
	assert.True(t, DemoProfile().Valid())
}

func TestRun_Idempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Run(ctx, db))
	require.NoError(t, Run(ctx, db))

	var count int64
	require.NoError(t, db.Model(&domain.DailyReport{}).Where("athlete_id = ?", DemoAthleteID).Count(&count).Error)
	assert.Equal(t, int64(seededDays), count)
}
