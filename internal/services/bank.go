package services

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrCategoryNotFound is returned when the bank holds no entries at all for
// the requested category. An empty skill set is never a retrieval failure.
var ErrCategoryNotFound = errors.New("no questions found for category")

type QuestionBankEntry struct {
	ID        string   `yaml:"id"`
	Category  string   `yaml:"category"`
	Type      string   `yaml:"type"`
	SkillTags []string `yaml:"skill_tags"`
	Prompt    string   `yaml:"prompt"`
}

// QuestionBank is the curated question collection. Loaded once at startup,
// read-only for the process lifetime.
type QuestionBank struct {
	entries []QuestionBankEntry
}

func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	return ParseQuestionBank(data)
}

func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var entries []QuestionBankEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	for i, entry := range entries {
		if entry.ID == "" || entry.Category == "" || entry.Prompt == "" {
			return nil, fmt.Errorf("question bank entry %d is missing id, category, or prompt", i)
		}
	}

	return &QuestionBank{entries: entries}, nil
}

func (b *QuestionBank) Size() int {
	return len(b.entries)
}

// Entries returns the bank entries in load order.
func (b *QuestionBank) Entries() []QuestionBankEntry {
	return b.entries
}

// FindEntry looks up a bank entry by its id.
func (b *QuestionBank) FindEntry(id string) (QuestionBankEntry, bool) {
	for _, entry := range b.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return QuestionBankEntry{}, false
}

// Retrieve selects up to limit entries for the category.
//
// With a non-empty skill set, entries are ranked by the number of matching
// skill tags (descending); entries matching no tag are excluded; equal-rank
// ties keep the original bank order. With an empty skill set (cold start) the
// entries come back unranked in bank order.
func (b *QuestionBank) Retrieve(skills []string, category string, limit int) ([]QuestionBankEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var inCategory []QuestionBankEntry
	for _, entry := range b.entries {
		if strings.EqualFold(entry.Category, category) {
			inCategory = append(inCategory, entry)
		}
	}

	if len(inCategory) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}

	if len(skills) == 0 {
		if len(inCategory) > limit {
			inCategory = inCategory[:limit]
		}
		return inCategory, nil
	}

	skillSet := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		skillSet[strings.ToLower(s)] = struct{}{}
	}

	type rankedEntry struct {
		entry   QuestionBankEntry
		matches int
	}

	var ranked []rankedEntry
	for _, entry := range inCategory {
		matches := 0
		for _, tag := range entry.SkillTags {
			if _, ok := skillSet[strings.ToLower(tag)]; ok {
				matches++
			}
		}
		if matches > 0 {
			ranked = append(ranked, rankedEntry{entry: entry, matches: matches})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].matches > ranked[j].matches
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]QuestionBankEntry, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, r.entry)
	}

	return result, nil
}
