package guard

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"
)

// Registration limits.
const (
	minNameLength  = 2
	maxBioLength   = 1000
	minStartRating = 4.0
)

// Registration is the data submitted by a guard signing up.
type Registration struct {
	FullName          string   `json:"full_name"`
	Role              string   `json:"role"`
	ExperienceYears   int      `json:"experience_years"`
	Location          string   `json:"location"`
	Gender            string   `json:"gender,omitempty"`
	Certifications    string   `json:"certifications,omitempty"`
	HourlyRate        *float64 `json:"hourly_rate,omitempty"`
	DailyRate         *float64 `json:"daily_rate,omitempty"`
	MonthlyRate       *float64 `json:"monthly_rate,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	ProfilePictureURL string   `json:"profile_picture_url,omitempty"`
}

// RatingSource yields the starting rating for a new guard.
type RatingSource func() float64

// RandomStartRating draws a rating in [4.0, 5.0] rounded to one decimal.
func RandomStartRating() float64 {
	return math.Round((minStartRating+rand.Float64())*10) / 10 //nolint:gosec // not security sensitive
}

// Validate checks the registration and returns every problem found, joined
// and wrapped in ErrInvalidRegistration.
func (r Registration) Validate() error {
	var errs []error
	if utf8.RuneCountInString(strings.TrimSpace(r.FullName)) < minNameLength {
		errs = append(errs, fmt.Errorf("full_name must be at least %d characters", minNameLength))
	}
	if _, err := ParseRole(r.Role); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseGender(r.Gender); err != nil {
		errs = append(errs, err)
	}
	if r.ExperienceYears < 0 {
		errs = append(errs, errors.New("experience_years must not be negative"))
	}
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, errors.New("location is required"))
	}
	rates, err := NewRateCard(r.HourlyRate, r.DailyRate, r.MonthlyRate)
	switch {
	case err != nil:
		errs = append(errs, err)
	case !rates.Bookable():
		errs = append(errs, errors.New("at least one of hourly_rate, daily_rate or monthly_rate is required"))
	}
	if utf8.RuneCountInString(r.Bio) > maxBioLength {
		errs = append(errs, fmt.Errorf("bio must not exceed %d characters", maxBioLength))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidRegistration, errors.Join(errs...))
}

// Build validates r and turns it into a Profile with the given id.
func (r Registration) Build(id string, rating RatingSource, now time.Time) (Profile, error) {
	if err := r.Validate(); err != nil {
		return Profile{}, err
	}
	role, _ := ParseRole(r.Role)
	gender, _ := ParseGender(r.Gender)
	rates, _ := NewRateCard(r.HourlyRate, r.DailyRate, r.MonthlyRate)
	if rating == nil {
		rating = RandomStartRating
	}
	return Profile{
		ID:              id,
		Name:            strings.TrimSpace(r.FullName),
		Role:            role,
		Location:        strings.TrimSpace(r.Location),
		Gender:          gender,
		Bio:             strings.TrimSpace(r.Bio),
		ExperienceYears: r.ExperienceYears,
		Rating:          math.Max(MinRating, math.Min(MaxRating, rating())),
		Skills:          ParseSkillList(r.Certifications),
		Rates:           rates,
		ImageURL:        strings.TrimSpace(r.ProfilePictureURL),
		CreatedAt:       now.UTC(),
	}, nil
}
