package guard

import (
	"slices"
	"strings"
)

// SkillSet is a sorted, duplicate-free list of skill tags.
type SkillSet []string

// NewSkillSet normalises tags into a set. Empty tags are dropped.
func NewSkillSet(tags ...string) SkillSet {
	out := make(SkillSet, 0, len(tags))
	for _, t := range tags {
		t = NormalizeSkill(t)
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseSkillList splits a comma separated list such as "CPR, First Aid"
// into a set ("cpr", "first_aid").
func ParseSkillList(s string) SkillSet {
	if strings.TrimSpace(s) == "" {
		return SkillSet{}
	}
	return NewSkillSet(strings.Split(s, ",")...)
}

// NormalizeSkill lower-cases a tag and joins inner whitespace with '_'.
func NormalizeSkill(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), "_")
}

// Has reports whether tag is in the set. tag must already be normalised.
// Sets decoded from storage are not guaranteed sorted, so this is a scan.
func (s SkillSet) Has(tag string) bool {
	return slices.Contains(s, tag)
}

// ContainsAll reports whether every tag of required is in s.
func (s SkillSet) ContainsAll(required SkillSet) bool {
	for _, tag := range required {
		if !s.Has(tag) {
			return false
		}
	}
	return true
}
