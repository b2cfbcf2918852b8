package catalog

import (
	"regexp"
	"sort"
	"strings"

	"tuitionmap/internal/models"
)

// Canonical display orders. Anything not listed sorts after every listed
// value, ties broken lexicographically.
var Levels = []string{
	"P1", "P2", "P3", "P4", "P5", "P6",
	"S1", "S2", "S3", "S4",
	"JC1", "JC2",
}

var Subjects = []string{
	"Mathematics", "Science", "English",
	"Chinese", "Malay", "Tamil",
	"Physics", "Chemistry", "Biology",
	"Economics", "Geography", "History", "Literature",
}

var (
	levelRank   = rankOf(Levels)
	subjectRank = rankOf(Subjects)
)

func rankOf(list []string) map[string]int {
	m := make(map[string]int, len(list))
	for i, v := range list {
		m[v] = i
	}
	return m
}

func rank(m map[string]int, v string) int {
	if r, ok := m[v]; ok {
		return r
	}
	return len(m) // unknown values after all known ones
}

// LevelLess orders levels by the canonical list, unknown last then lexicographic.
func LevelLess(a, b string) bool {
	ra, rb := rank(levelRank, a), rank(levelRank, b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// SubjectLess orders subjects the same way.
func SubjectLess(a, b string) bool {
	ra, rb := rank(subjectRank, a), rank(subjectRank, b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

var slugScrub = regexp.MustCompile(`[^a-z0-9]+`)

// CentreID derives the stable identifier for a centre from its name.
// Deterministic so re-seeding reference data never changes ids.
func CentreID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugScrub.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DedupeOfferings drops repeated (level, subject) pairs, keeping first occurrence.
func DedupeOfferings(offerings []models.Offering) []models.Offering {
	seen := make(map[string]bool, len(offerings))
	out := make([]models.Offering, 0, len(offerings))
	for _, o := range offerings {
		key := o.Level + "\x00" + o.Subject
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}

// SortOfferings orders level-major, subject-minor per the canonical lists.
func SortOfferings(offerings []models.Offering) {
	sort.SliceStable(offerings, func(i, j int) bool {
		if offerings[i].Level != offerings[j].Level {
			return LevelLess(offerings[i].Level, offerings[j].Level)
		}
		return SubjectLess(offerings[i].Subject, offerings[j].Subject)
	})
}

// OfferingGroup is one level header plus its member offerings, in display order.
type OfferingGroup struct {
	Level     string
	Offerings []models.Offering
}

// GroupOfferings buckets pre-sorted offerings into level-headed groups.
// Single pass; input must already be in SortOfferings order.
func GroupOfferings(sorted []models.Offering) []OfferingGroup {
	var groups []OfferingGroup
	for _, o := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].Level != o.Level {
			groups = append(groups, OfferingGroup{Level: o.Level})
		}
		g := &groups[len(groups)-1]
		g.Offerings = append(g.Offerings, o)
	}
	return groups
}
