package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkravchenko/swotstat/internal/models"
)

func keyPath(keys ...string) models.Path {
	p := make(models.Path, 0, len(keys))
	for _, k := range keys {
		p = append(p, models.NewKey(k))
	}
	return p
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		path models.Path
		want []Rule
	}{
		{"fop english", keyPath("data", "fopStat"), []Rule{RuleFop}},
		{"fop ukrainian", keyPath("статистика_фоп"), []Rule{RuleFop}},
		{"companies english", keyPath("companyStatistic"), []Rule{RuleCompanies}},
		{"companies ukrainian stem", keyPath("компанії"), []Rule{RuleCompanies}},
		{"legal entity shorthand", keyPath("юо_статистика"), []Rule{RuleCompanies}},
		{"kved", keyPath("data", "kvedCount"), []Rule{RuleKved}},
		{"land english", keyPath("landStat"), []Rule{RuleLandPlots}},
		{"land ukrainian", keyPath("земельні_ділянки"), []Rule{RuleLandPlots}},
		{"objects", keyPath("objectStatistic"), []Rule{RuleObjects}},
		{"procurements", keyPath("procurementStat"), []Rule{RuleProcurements}},
		{"procurements ukrainian", keyPath("закупівлі"), []Rule{RuleProcurements}},
		{"case insensitive", keyPath("FOP_STAT"), []Rule{RuleFop}},
		{"no match", keyPath("data", "meta", "timestamp"), nil},
		{"empty path", models.Path{}, nil},
		{
			"multiple rules from one segment",
			keyPath("company_land_count"),
			[]Rule{RuleCompanies, RuleLandPlots},
		},
		{
			"rules from different segments",
			keyPath("fopStat", "kvedList"),
			[]Rule{RuleFop, RuleKved},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.path))
		})
	}
}

func TestMatch_IndexSegmentsNeverMatch(t *testing.T) {
	// An index-only path has no key segments to match against.
	p := models.Path{models.NewIndex(0), models.NewIndex(1)}
	assert.Nil(t, Match(p))

	// The index between key segments contributes nothing.
	p = models.Path{models.NewKey("landStat"), models.NewIndex(3), models.NewKey("area")}
	assert.Equal(t, []Rule{RuleLandPlots}, Match(p))
}

func TestMatchCategories(t *testing.T) {
	// Both fop and company rules resolve to the same category exactly once.
	p := keyPath("fop_company_stat")
	assert.Equal(t, []Category{FopCompanies}, MatchCategories(p))

	p = keyPath("company_land_count")
	assert.Equal(t, []Category{FopCompanies, LandPlots}, MatchCategories(p))

	assert.Nil(t, MatchCategories(keyPath("irrelevant")))
}

func TestRule_Category(t *testing.T) {
	assert.Equal(t, FopCompanies, RuleFop.Category())
	assert.Equal(t, FopCompanies, RuleCompanies.Category())
	assert.Equal(t, Kved, RuleKved.Category())
	assert.Equal(t, LandPlots, RuleLandPlots.Category())
	assert.Equal(t, Objects, RuleObjects.Category())
	assert.Equal(t, PublicProcurements, RuleProcurements.Category())
}

func TestCategories_EnumerationOrder(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 10)
	assert.Equal(t, FopCompanies, cats[0])
	assert.Equal(t, Vehicle, cats[9])

	assert.Equal(t, "FopCompanies", FopCompanies.String())
	assert.Equal(t, "StatusStats", StatusStats.String())
	assert.Equal(t, "Unknown", Category(42).String())
}
