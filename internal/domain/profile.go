package domain

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the athlete's identity and static attributes.
type Profile struct {
	AthleteID      string    `gorm:"type:varchar(64);primaryKey" json:"athlete_id"`
	GivenName      string    `gorm:"type:varchar(120);not null" json:"given_name"`
	FamilyName     string    `gorm:"type:varchar(120);not null" json:"family_name"`
	PrimarySport   string    `gorm:"type:varchar(120);not null" json:"primary_sport"`
	ProfileSummary string    `gorm:"type:text" json:"profile_summary,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// CreateProfileRequest is the raw onboarding form.
// @Description Onboarding form fields. All are required.
type CreateProfileRequest struct {
	GivenName    string `json:"given_name" validate:"required,notblank,max=120" example:"Lucia"`
	FamilyName   string `json:"family_name" validate:"required,notblank,max=120" example:"Martinez Ruiz"`
	PrimarySport string `json:"primary_sport" validate:"required,notblank,max=120" example:"Triathlon"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateProfileRequest) Normalize() {
	r.GivenName = strings.TrimSpace(r.GivenName)
	r.FamilyName = strings.TrimSpace(r.FamilyName)
	r.PrimarySport = strings.TrimSpace(r.PrimarySport)
}

// Validate checks that every required field is present after trimming.
func (r CreateProfileRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.GivenName) == "" {
		missing = append(missing, "given_name")
	}
	if strings.TrimSpace(r.FamilyName) == "" {
		missing = append(missing, "family_name")
	}
	if strings.TrimSpace(r.PrimarySport) == "" {
		missing = append(missing, "primary_sport")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// Valid reports whether a cached profile carries the fields a session needs.
func (p *Profile) Valid() bool {
	return p != nil && p.AthleteID != "" && p.GivenName != "" && p.FamilyName != "" && p.PrimarySport != ""
}
