package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

var (
	searchLocations = []string{"Mumbai, MH", "Navi Mumbai, MH", "Delhi, DL", "New Delhi, DL", "Pune, MH", "Bengaluru, KA"}
	searchQueries   = []string{"", "mumbai", "DELHI", "mh", "pune", "chennai", "new"}
	searchSkills    = []string{"cpr", "first_aid", "crowd_control", "martial_arts", "vip_protection"}
	searchGenders   = []guard.Gender{guard.GenderUnspecified, guard.GenderMale, guard.GenderFemale}
)

func randomProfile(r *rand.Rand, i int) guard.Profile {
	var skills []string
	for _, s := range searchSkills {
		if r.IntN(2) == 0 {
			skills = append(skills, s)
		}
	}
	var rates guard.RateCard
	if r.IntN(4) != 0 {
		rates.Hourly = guard.Rate(float64(r.IntN(20)) * 100)
	}
	if r.IntN(2) == 0 {
		rates.Daily = guard.Rate(float64(r.IntN(10)+1) * 1000)
	}
	return guard.Profile{
		ID:              fmt.Sprintf("g-%03d", i),
		Name:            fmt.Sprintf("Guard %d", i),
		Role:            guard.Roles[r.IntN(len(guard.Roles))],
		Location:        searchLocations[r.IntN(len(searchLocations))],
		Gender:          searchGenders[r.IntN(len(searchGenders))],
		ExperienceYears: r.IntN(15),
		Rating:          float64(40+r.IntN(11)) / 10,
		Skills:          guard.NewSkillSet(skills...),
		Rates:           rates,
	}
}

func randomCriteria(r *rand.Rand) guard.Criteria {
	var c guard.Criteria
	c.Location = searchQueries[r.IntN(len(searchQueries))]
	if r.IntN(2) == 0 {
		c.Role = guard.Roles[r.IntN(len(guard.Roles))]
	}
	c.Gender = searchGenders[r.IntN(len(searchGenders))]
	if r.IntN(2) == 0 {
		c.MaxHourlyRate = guard.Rate(float64(r.IntN(20)) * 100)
	}
	if r.IntN(2) == 0 {
		c.MinRating = float64(40+r.IntN(11)) / 10
	}
	c.MinExperienceYears = r.IntN(10)
	var skills []string
	for _, s := range searchSkills {
		if r.IntN(4) == 0 {
			skills = append(skills, s)
		}
	}
	c.RequiredSkills = guard.NewSkillSet(skills...)
	return c
}

// filterChain narrows the list one predicate at a time, the way the listing
// page does, without going through Criteria.Matches.
func filterChain(all []guard.Profile, c guard.Criteria) []guard.Profile {
	keep := func(in []guard.Profile, ok func(guard.Profile) bool) []guard.Profile {
		out := []guard.Profile{}
		for _, p := range in {
			if ok(p) {
				out = append(out, p)
			}
		}
		return out
	}
	out := keep(all, func(p guard.Profile) bool {
		return c.Location == "" || strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.Location))
	})
	out = keep(out, func(p guard.Profile) bool { return c.Role == "" || p.Role == c.Role })
	out = keep(out, func(p guard.Profile) bool { return c.Gender == "" || p.Gender == c.Gender })
	out = keep(out, func(p guard.Profile) bool {
		return c.MaxHourlyRate == nil || p.Rates.Hourly == nil || *p.Rates.Hourly <= *c.MaxHourlyRate
	})
	out = keep(out, func(p guard.Profile) bool { return p.Rating >= c.MinRating })
	out = keep(out, func(p guard.Profile) bool { return p.ExperienceYears >= c.MinExperienceYears })
	return keep(out, func(p guard.Profile) bool {
		for _, want := range c.RequiredSkills {
			found := false
			for _, have := range p.Skills {
				if have == want {
					found = true
				}
			}
			if !found {
				return false
			}
		}
		return true
	})
}

func TestMemoryDirectory_SearchMatchesFilterChain(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewPCG(7, 11))

	d := NewMemoryDirectory()
	all := make([]guard.Profile, 0, 200)
	for i := range 200 {
		p := randomProfile(r, i)
		if err := d.Add(ctx, p); err != nil {
			t.Fatalf("add %s: %v", p.ID, err)
		}
		all = append(all, p)
	}

	nonEmpty := 0
	for i := range 500 {
		c := randomCriteria(r)
		want := filterChain(all, c)
		got := d.Search(ctx, c)
		if diff := cmp.Diff(ids(want), ids(got)); diff != "" {
			t.Fatalf("criteria #%d %+v: search differs from filter chain (-want +got):\n%s", i, c, diff)
		}
		if len(got) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		t.Fatal("every generated search was empty; the comparison proved nothing")
	}
}
