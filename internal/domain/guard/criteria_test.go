package guard_test

import (
	"errors"
	"testing"

	"github.com/protecthire/protecthire/internal/domain/guard"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleProfile() guard.Profile {
	return guard.Profile{
		ID:              "g-1",
		Name:            "Aarav Sharma",
		Role:            guard.RoleSecurityGuard,
		Location:        "Mumbai, MH",
		Gender:          guard.GenderMale,
		ExperienceYears: 5,
		Rating:          4.8,
		Skills:          guard.NewSkillSet("cpr", "first_aid"),
		Rates:           guard.RateCard{Hourly: guard.Rate(500), Daily: guard.Rate(3500)},
	}
}

func TestCriteria_Matches(t *testing.T) {
	Convey("Given a profile", t, func() {
		p := sampleProfile()

		Convey("Empty criteria match everything", func() {
			So(guard.Criteria{}.Matches(p), ShouldBeTrue)
		})

		Convey("Location is a case-insensitive substring", func() {
			So(guard.Criteria{Location: "mumbai"}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{Location: "BAI, m"}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{Location: "Delhi"}.Matches(p), ShouldBeFalse)
			So(guard.Criteria{Location: "   "}.Matches(p), ShouldBeTrue)
		})

		Convey("Role and gender must match exactly when set", func() {
			So(guard.Criteria{Role: guard.RoleSecurityGuard}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{Role: guard.RoleBouncer}.Matches(p), ShouldBeFalse)
			So(guard.Criteria{Gender: guard.GenderMale}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{Gender: guard.GenderFemale}.Matches(p), ShouldBeFalse)
		})

		Convey("A profile without gender never matches a gender filter", func() {
			p.Gender = guard.GenderUnspecified
			So(guard.Criteria{Gender: guard.GenderFemale}.Matches(p), ShouldBeFalse)
			So(guard.Criteria{}.Matches(p), ShouldBeTrue)
		})

		Convey("Max hourly rate only constrains hourly-priced guards", func() {
			So(guard.Criteria{MaxHourlyRate: guard.Rate(500)}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{MaxHourlyRate: guard.Rate(499)}.Matches(p), ShouldBeFalse)

			p.Rates = guard.RateCard{Daily: guard.Rate(4000)}
			So(guard.Criteria{MaxHourlyRate: guard.Rate(1)}.Matches(p), ShouldBeTrue)
		})

		Convey("Rating and experience are floors", func() {
			So(guard.Criteria{MinRating: 4.8}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{MinRating: 4.9}.Matches(p), ShouldBeFalse)
			So(guard.Criteria{MinExperienceYears: 5}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{MinExperienceYears: 6}.Matches(p), ShouldBeFalse)
		})

		Convey("Required skills use AND semantics", func() {
			So(guard.Criteria{RequiredSkills: guard.NewSkillSet("cpr", "first_aid")}.Matches(p), ShouldBeTrue)
			So(guard.Criteria{RequiredSkills: guard.NewSkillSet("cpr", "vip_protection")}.Matches(p), ShouldBeFalse)

			p.Skills = guard.NewSkillSet("cpr", "crowd_control", "vip_protection")
			So(guard.Criteria{RequiredSkills: guard.NewSkillSet("cpr", "first_aid")}.Matches(p), ShouldBeFalse)
		})

		Convey("All active predicates must hold together", func() {
			c := guard.Criteria{
				Location:           "mumbai",
				Role:               guard.RoleSecurityGuard,
				MaxHourlyRate:      guard.Rate(600),
				MinRating:          4.5,
				MinExperienceYears: 3,
				RequiredSkills:     guard.NewSkillSet("cpr"),
			}
			So(c.Matches(p), ShouldBeTrue)

			c.MinExperienceYears = 10
			So(c.Matches(p), ShouldBeFalse)
		})
	})
}

func TestParseRoleAndGender(t *testing.T) {
	Convey("Roles parse case-insensitively", t, func() {
		r, err := guard.ParseRole("event security")
		So(err, ShouldBeNil)
		So(r, ShouldEqual, guard.RoleEventSecurity)

		_, err = guard.ParseRole("Ninja")
		So(errors.Is(err, guard.ErrUnknownRole), ShouldBeTrue)
	})

	Convey("Genders accept male, female or nothing", t, func() {
		g, err := guard.ParseGender("Female")
		So(err, ShouldBeNil)
		So(g, ShouldEqual, guard.GenderFemale)

		g, err = guard.ParseGender("")
		So(err, ShouldBeNil)
		So(g, ShouldEqual, guard.GenderUnspecified)

		_, err = guard.ParseGender("other")
		So(errors.Is(err, guard.ErrUnknownGender), ShouldBeTrue)
	})
}
