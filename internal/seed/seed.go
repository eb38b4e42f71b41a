// Package seed provides the starter guard roster.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

//go:embed roster.yaml
var rosterYAML []byte

// Roster decodes the embedded roster. Skill tags are normalised the same
// way registrations are.
func Roster() ([]guard.Profile, error) {
	var ps []guard.Profile
	if err := yaml.Unmarshal(rosterYAML, &ps); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	for i := range ps {
		ps[i].Skills = guard.NewSkillSet(ps[i].Skills...)
	}
	return ps, nil
}
