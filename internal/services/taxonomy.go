package services

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SkillTaxonomy maps a job category to the skill terms recognized for it.
// Loaded once at startup and read-only afterwards.
type SkillTaxonomy struct {
	skills map[string][]string
}

func LoadSkillTaxonomy(path string) (*SkillTaxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill taxonomy: %w", err)
	}

	return ParseSkillTaxonomy(data)
}

func ParseSkillTaxonomy(data []byte) (*SkillTaxonomy, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse skill taxonomy: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("skill taxonomy is empty")
	}

	return &SkillTaxonomy{skills: raw}, nil
}

// Categories returns the known job categories in sorted order.
func (t *SkillTaxonomy) Categories() []string {
	categories := make([]string, 0, len(t.skills))
	for category := range t.skills {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// SkillsFor returns the skill terms recognized for the given category. Unknown
// categories yield an empty list, not an error: the resume structurer treats
// that as "nothing to match".
func (t *SkillTaxonomy) SkillsFor(category string) []string {
	return t.skills[category]
}

func (t *SkillTaxonomy) HasCategory(category string) bool {
	_, ok := t.skills[category]
	return ok
}
