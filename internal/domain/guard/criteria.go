package guard

import "strings"

// Criteria selects profiles. Zero-valued fields do not filter; a profile
// must satisfy every active predicate.
type Criteria struct {
	// Location is matched as a case-insensitive substring.
	Location string
	// Role must match exactly when set.
	Role Role
	// Gender must match exactly when set.
	Gender Gender
	// MaxHourlyRate only constrains guards that charge by the hour.
	MaxHourlyRate *float64
	MinRating     float64
	// MinExperienceYears is compared against Profile.ExperienceYears.
	MinExperienceYears int
	// RequiredSkills must all be present on the profile.
	RequiredSkills SkillSet
}

// Matches reports whether p satisfies every active predicate of c.
func (c Criteria) Matches(p Profile) bool {
	if strings.TrimSpace(c.Location) != "" &&
		!strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.Location)) {
		return false
	}
	if c.Role != "" && p.Role != c.Role {
		return false
	}
	if c.Gender != GenderUnspecified && p.Gender != c.Gender {
		return false
	}
	if c.MaxHourlyRate != nil {
		if hourly, ok := p.Rates.HourlyRate(); ok && hourly > *c.MaxHourlyRate {
			return false
		}
	}
	if p.Rating < c.MinRating {
		return false
	}
	if p.ExperienceYears < c.MinExperienceYears {
		return false
	}
	return p.Skills.ContainsAll(c.RequiredSkills)
}
