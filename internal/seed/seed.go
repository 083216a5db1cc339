package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"github.com/blaisecz/athlete-readiness/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	seededDays = 21
	// DemoAthleteID identifies the seeded athlete in the remote store.
	DemoAthleteID = "00000000-0000-4000-8000-00000000a7e1"
)

var seedNamespace = uuid.MustParse("6f1c2b7e-3d9a-4c55-9a0e-5b2f8d1e4c70")

// Run seeds the database with a demo athlete and a few weeks of report
// history. Safe to call multiple times.
func Run(ctx context.Context, db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Profile{}, &domain.DailyReport{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	profile := DemoProfile()
	if err := repository.NewProfileRepository(db).Upsert(ctx, profile); err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", profile.AthleteID, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rows, err := Reports(profile.AthleteID, seededDays, time.Now().UTC(), rng)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := db.WithContext(ctx).Where("id = ?", row.ID).FirstOrCreate(row).Error; err != nil {
			return fmt.Errorf("failed to create report %s: %w", row.ID, err)
		}
	}

	slog.Info("seed completed", "component", "seed", "athlete_id", profile.AthleteID, "days", seededDays)
	return nil
}

// DemoProfile returns the seeded athlete.
func DemoProfile() *domain.Profile {
	now := time.Now().UTC()
	return &domain.Profile{
		AthleteID:      DemoAthleteID,
		GivenName:      "Lucia",
		FamilyName:     "Martinez Ruiz",
		PrimarySport:   "Triathlon",
		ProfileSummary: "Age-group triathlete preparing for a middle-distance race.",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Reports builds one history row per day, newest first. Row IDs are derived
// from the athlete and day so a rerun finds the rows it already wrote.
func Reports(athleteID string, days int, now time.Time, rng *rand.Rand) ([]*domain.DailyReport, error) {
	rows := make([]*domain.DailyReport, 0, days)
	for i := 0; i < days; i++ {
		vector := randomVector(rng)
		score := readinessScore(vector)
		report := &domain.Report{
			GlobalScore:    score,
			Classification: domain.Classify(score),
			Insight:        fmt.Sprintf("Seeded check-in %d days ago.", i),
			Metrics:        vector,
			GeneratedAt:    now.AddDate(0, 0, -i),
		}

		row, err := domain.NewDailyReport(athleteID, report)
		if err != nil {
			return nil, fmt.Errorf("build report for day %d: %w", i, err)
		}
		row.ID = uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s/%d", athleteID, i)))
		rows = append(rows, row)
	}
	return rows, nil
}

func randomVector(rng *rand.Rand) domain.MetricVector {
	v := domain.DefaultMetricVector()
	for _, c := range domain.Channels {
		v, _ = v.With(c, domain.MinMetricValue+rng.Intn(domain.MaxMetricValue))
	}
	return v
}

// readinessScore is a rough stand-in for the inference service: positive
// channels raise the score, load channels lower it.
func readinessScore(v domain.MetricVector) float64 {
	positive := v.Energy + v.SleepQuality + v.MentalWellbeing + v.Motivation + v.Focus
	load := v.MuscleSoreness + v.Stress + v.Fatigue
	raw := float64(positive-load+3*domain.MaxMetricValue-5*domain.MinMetricValue) /
		float64(5*domain.MaxMetricValue+3*domain.MaxMetricValue-5*domain.MinMetricValue-3*domain.MinMetricValue)
	return domain.ClampScore(raw)
}
