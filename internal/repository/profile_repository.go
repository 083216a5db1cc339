package repository

import (
	"context"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository writes athlete profiles to the remote store.
type ProfileRepository interface {
	// Upsert inserts the profile or overwrites the mutable columns of an
	// existing row with the same athlete_id. Last write wins.
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "athlete_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"given_name",
				"family_name",
				"primary_sport",
				"profile_summary",
				"updated_at",
			}),
		}).
		Create(profile).Error
}
