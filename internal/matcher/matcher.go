// Package matcher classifies traversal paths into statistic categories
// using bilingual keyword heuristics.
package matcher

import (
	"strings"

	"github.com/dkravchenko/swotstat/internal/models"
)

// Category is the fixed, closed set of statistic categories. The
// declaration order is the enumeration order used for output: JSON
// statistics blocks and workbook sheets follow it.
type Category int

const (
	FopCompanies Category = iota
	Kved
	LandPlots
	Objects
	PublicProcurements
	Migration
	CadastrEstate
	StatusStats
	OpenClose
	Vehicle
)

var categoryNames = [...]string{
	FopCompanies:       "FopCompanies",
	Kved:               "Kved",
	LandPlots:          "LandPlots",
	Objects:            "Objects",
	PublicProcurements: "PublicProcurements",
	Migration:          "Migration",
	CadastrEstate:      "CadastrEstate",
	StatusStats:        "StatusStats",
	OpenClose:          "OpenClose",
	Vehicle:            "Vehicle",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Categories returns all category keys in enumeration order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// Rule identifies one path-driven accumulation rule. FopCompanies is
// fed by two distinct rules (fop and company keywords) that accumulate
// into separate sub-buckets of the same category.
type Rule int

const (
	RuleFop Rule = iota
	RuleCompanies
	RuleKved
	RuleLandPlots
	RuleObjects
	RuleProcurements
)

// Category returns the category a rule accumulates into.
func (r Rule) Category() Category {
	switch r {
	case RuleFop, RuleCompanies:
		return FopCompanies
	case RuleKved:
		return Kved
	case RuleLandPlots:
		return LandPlots
	case RuleObjects:
		return Objects
	case RuleProcurements:
		return PublicProcurements
	}
	return Category(-1)
}

// keywords is the bilingual table: a rule fires when any of its
// keywords is contained in any key segment of the path. The Ukrainian
// stems mirror the upstream report vocabulary ("юо" is the legal-entity
// shorthand).
var keywords = [...][]string{
	RuleFop:          {"fop", "фоп"},
	RuleCompanies:    {"company", "компані", "юо"},
	RuleKved:         {"kved", "квед"},
	RuleLandPlots:    {"land", "земель", "ділянк"},
	RuleObjects:      {"object", "об'єкт", "обект"},
	RuleProcurements: {"procurement", "закупівл", "тендер"},
}

// Match returns every rule whose keyword set matches the path,
// case-insensitively, in rule declaration order. Array-index segments
// never match. A path may match several rules at once; the accumulator
// applies all of them independently.
func Match(path models.Path) []Rule {
	if len(path) == 0 {
		return nil
	}
	var lowered []string
	for _, seg := range path {
		if seg.IsIndex() {
			continue
		}
		lowered = append(lowered, strings.ToLower(seg.Key))
	}
	if len(lowered) == 0 {
		return nil
	}

	var rules []Rule
	for r, words := range keywords {
		if matchAny(lowered, words) {
			rules = append(rules, Rule(r))
		}
	}
	return rules
}

// MatchCategories is the classification contract over categories: the
// set of categories whose rules match the path, in enumeration order.
func MatchCategories(path models.Path) []Category {
	rules := Match(path)
	if len(rules) == 0 {
		return nil
	}
	seen := make(map[Category]struct{}, len(rules))
	var cats []Category
	for _, r := range rules {
		c := r.Category()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	return cats
}

func matchAny(segments []string, words []string) bool {
	for _, seg := range segments {
		for _, w := range words {
			if strings.Contains(seg, w) {
				return true
			}
		}
	}
	return false
}
