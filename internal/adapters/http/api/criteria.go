package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

// parseCriteria reads search filters from query parameters. Unknown
// enumerations and bad numbers fail with ErrBadRequest.
func parseCriteria(q url.Values) (guard.Criteria, error) {
	c := guard.Criteria{Location: q.Get("location")}

	if role := strings.TrimSpace(q.Get("role")); role != "" &&
		!strings.EqualFold(role, guard.AllRolesSentinel) && !strings.EqualFold(role, "all") {
		r, err := guard.ParseRole(role)
		if err != nil {
			return guard.Criteria{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		c.Role = r
	}

	if gender := strings.TrimSpace(q.Get("gender")); !strings.EqualFold(gender, guard.AnyGenderSentinel) {
		g, err := guard.ParseGender(gender)
		if err != nil {
			return guard.Criteria{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		c.Gender = g
	}

	if v := q.Get("max_hourly_rate"); v != "" {
		f, err := nonNegativeFloat("max_hourly_rate", v)
		if err != nil {
			return guard.Criteria{}, err
		}
		c.MaxHourlyRate = &f
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := nonNegativeFloat("min_rating", v)
		if err != nil {
			return guard.Criteria{}, err
		}
		if f > guard.MaxRating {
			return guard.Criteria{}, fmt.Errorf("%w: min_rating must be at most %.0f", ErrBadRequest, guard.MaxRating)
		}
		c.MinRating = f
	}
	if v := q.Get("min_experience_years"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return guard.Criteria{}, fmt.Errorf("%w: min_experience_years must be a non-negative integer", ErrBadRequest)
		}
		c.MinExperienceYears = n
	}

	var tags []string
	for _, v := range q["skills"] {
		tags = append(tags, strings.Split(v, ",")...)
	}
	if len(tags) > 0 {
		c.RequiredSkills = guard.NewSkillSet(tags...)
	}
	return c, nil
}

func nonNegativeFloat(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", ErrBadRequest, name)
	}
	return f, nil
}
