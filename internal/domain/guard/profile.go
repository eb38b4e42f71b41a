// Package guard contains the guard profile model and the predicates used to
// filter it.
package guard

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Role is the kind of security work a guard offers.
type Role string

// Known roles.
const (
	RoleSecurityGuard Role = "Security Guard"
	RoleBouncer       Role = "Bouncer"
	RoleEventSecurity Role = "Event Security"
	RoleBodyguard     Role = "Bodyguard"
	RoleCaretaker     Role = "Caretaker"
)

// AllRolesSentinel is the filter value meaning "do not filter by role".
const AllRolesSentinel = "All Roles"

// Roles lists every known role in display order.
var Roles = []Role{RoleSecurityGuard, RoleBouncer, RoleEventSecurity, RoleBodyguard, RoleCaretaker}

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Gender of a guard. The zero value means unspecified.
type Gender string

// Known genders.
const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// AnyGenderSentinel is the filter value meaning "do not filter by gender".
const AnyGenderSentinel = "any"

// ParseGender accepts male, female or an empty string.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnspecified, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
	}
}

// Profile is an immutable guard listing.
type Profile struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Role            Role      `json:"role" yaml:"role"`
	Location        string    `json:"location" yaml:"location"`
	Gender          Gender    `json:"gender,omitempty" yaml:"gender,omitempty"`
	Bio             string    `json:"bio,omitempty" yaml:"bio,omitempty"`
	ExperienceYears int       `json:"experience_years" yaml:"experience_years"`
	Rating          float64   `json:"rating" yaml:"rating"`
	Skills          SkillSet  `json:"skills" yaml:"skills"`
	Rates           RateCard  `json:"rates" yaml:"rates"`
	ImageURL        string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// Bookable reports whether the profile carries at least one rate.
func (p Profile) Bookable() bool {
	return p.Rates.Bookable()
}

// Clone returns a copy that shares no mutable state with p.
func (p Profile) Clone() Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Rates = p.Rates.clone()
	return p
}
