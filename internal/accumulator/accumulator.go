// Package accumulator aggregates category statistics out of one
// traversal pass over a decoded SWOT report.
package accumulator

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dkravchenko/swotstat/internal/extractor"
	"github.com/dkravchenko/swotstat/internal/matcher"
	"github.com/dkravchenko/swotstat/internal/models"
	"github.com/dkravchenko/swotstat/internal/walker"
)

// Accumulator populates a Record from the two aggregation tracks: the
// path-driven counter scan (Node, per visited node) and the named
// substructure lookup (Substructures, once per payload). Neither may be
// called after Finalize.
type Accumulator struct {
	rec *Record
	log *zap.Logger
}

// New creates an accumulator with a fresh record. A nil logger
// silences diagnostics.
func New(logger *zap.Logger) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accumulator{rec: NewRecord(), log: logger}
}

// Extract runs the full extraction over one decoded report document and
// returns the frozen record. The payload root is resolved first; a
// document that carries a data/raw_response wrapper with no usable
// payload yields an empty record, which is a success outcome.
func Extract(doc models.Value, logger *zap.Logger) *Record {
	a := New(logger)
	payload, ok := extractor.PayloadRoot(doc)
	if !ok {
		if hasWrapperKeys(doc) {
			a.log.Warn("no payload found in report document")
			return a.Finalize()
		}
		// Bare documents without the API envelope are processed as-is.
		a.log.Debug("no payload wrapper present, scanning document root")
		payload = doc
	}
	for path, node := range walker.Walk(payload) {
		a.Node(path, node)
	}
	a.Substructures(payload)
	return a.Finalize()
}

func hasWrapperKeys(doc models.Value) bool {
	obj, ok := doc.(*models.Object)
	if !ok {
		return false
	}
	if _, ok := obj.Get("data"); ok {
		return true
	}
	_, ok = obj.Get("raw_response")
	return ok
}

// Node applies every counter rule whose keywords match the node's path.
// Matched rules fire independently; a segment like "company_land_count"
// feeds both FopCompanies and LandPlots.
func (a *Accumulator) Node(path models.Path, node models.Value) {
	rules := matcher.Match(path)
	if len(rules) == 0 {
		return
	}
	obj, isObj := node.(*models.Object)
	for _, r := range rules {
		switch r {
		case matcher.RuleFop:
			if isObj {
				if n, ok := intField(obj, "count"); ok {
					a.rec.FopCompanies.FopCount += n
				}
			}
		case matcher.RuleCompanies:
			if isObj {
				if n, ok := intField(obj, "count"); ok {
					a.rec.FopCompanies.CompaniesCount += n
				}
			}
		case matcher.RuleKved:
			a.appendKved(node)
		case matcher.RuleLandPlots:
			if isObj {
				if n, ok := intField(obj, "count"); ok {
					a.rec.LandPlots.Count += n
				}
				if f, ok := numberField(obj, "area"); ok {
					a.rec.LandPlots.TotalArea += f
				}
				if f, ok := numberField(obj, "total_area"); ok {
					a.rec.LandPlots.TotalArea += f
				}
			}
		case matcher.RuleObjects:
			if isObj {
				if n, ok := intField(obj, "count"); ok {
					a.rec.Objects.Count += n
				}
			}
		case matcher.RuleProcurements:
			if isObj {
				if n, ok := intField(obj, "count"); ok {
					a.rec.PublicProcurements.Count += n
				}
				if f, ok := numberField(obj, "amount"); ok {
					a.rec.PublicProcurements.TotalAmount += f
				}
				if f, ok := numberField(obj, "total_amount"); ok {
					a.rec.PublicProcurements.TotalAmount += f
				}
			}
		}
	}
}

// appendKved feeds the shared kved list: array nodes contribute their
// elements, objects contribute their "list" or "items" array. Nested
// matches can append the same entries twice; finalize-time
// deduplication absorbs that.
func (a *Accumulator) appendKved(node models.Value) {
	switch v := node.(type) {
	case models.Array:
		a.rec.Kved.List = append(a.rec.Kved.List, v...)
	case *models.Object:
		if l, ok := v.Get("list"); ok {
			if arr, ok := l.(models.Array); ok {
				a.rec.Kved.List = append(a.rec.Kved.List, arr...)
				return
			}
		}
		if l, ok := v.Get("items"); ok {
			if arr, ok := l.(models.Array); ok {
				a.rec.Kved.List = append(a.rec.Kved.List, arr...)
			}
		}
	}
}

// Substructures runs the named-substructure track: one first-match
// lookup per category, each applying its projection.
func (a *Accumulator) Substructures(payload models.Value) {
	if v, ok := extractor.FindField(payload, "kvedStatistic"); ok {
		if arr, ok := v.(models.Array); ok {
			a.rec.Kved.Statistic = arr
			a.log.Info("found kved statistic", zap.Int("records", len(arr)))
		}
	}

	if v, ok := extractor.FindField(payload, "intelligenceStatistic"); ok {
		if arr, ok := v.(models.Array); ok {
			a.rec.StatusStats.Intelligence = arr
			a.log.Info("found intelligence statistic", zap.Int("records", len(arr)))
		}
	}

	if v, ok := extractor.FindField(payload, "migrationRegionStatistic"); ok {
		if obj, ok := v.(*models.Object); ok {
			m := &a.rec.Migration
			m.TotalIn = fieldOrNil(obj, "migrationTotalIn")
			m.TotalOut = fieldOrNil(obj, "migrationTotalOut")
			m.TotalFopIn = fieldOrNil(obj, "migrationTotalFopIn")
			m.TotalFopOut = fieldOrNil(obj, "migrationTotalFopOut")
			m.TotalCompanyIn = fieldOrNil(obj, "migrationTotalCompanyIn")
			m.TotalCompanyOut = fieldOrNil(obj, "migrationTotalCompanyOut")
			m.Present = true
			m.HasValues = anyNonNil(m.values())
			if m.HasValues {
				a.log.Info("found migration statistic")
			} else {
				a.log.Info("migration statistic present but all values are null")
			}
		}
	}

	if v, ok := extractor.FindField(payload, "cadastrEstateStatistic"); ok {
		a.rec.CadastrEstate = StripCadastrNumbers(v)
		a.log.Info("found cadastre estate statistic")
	}

	if v, ok := extractor.FindField(payload, "statusStats"); ok {
		a.rec.StatusStats.Stats = v
		a.log.Info("found status statistics")
	}

	if v, ok := extractor.FindField(payload, "openCloseStatistic"); ok {
		if obj, ok := v.(*models.Object); ok {
			oc := &a.rec.OpenClose
			oc.CompanyOpen = fieldOrNil(obj, "companyOpen")
			oc.CompanyCurrentClose = fieldOrNil(obj, "companyCurrentClose")
			oc.CompanyPercentLive = fieldOrNil(obj, "companyPercentLive")
			oc.FopOpen = fieldOrNil(obj, "fopOpen")
			oc.FopCurrentClose = fieldOrNil(obj, "fopCurrentClose")
			oc.FopPercentLive = fieldOrNil(obj, "fopPercentLive")
			oc.TotalOpen = fieldOrNil(obj, "totalOpen")
			oc.TotalCurrentClose = fieldOrNil(obj, "totalCurrentClose")
			oc.TotalPercentLive = fieldOrNil(obj, "totalPercentLive")
			oc.Present = true
			oc.HasValues = anyNonNil(oc.values())
			if oc.HasValues {
				a.log.Info("found open/close statistic")
			} else {
				a.log.Info("open/close statistic present but all values are null")
			}
		}
	}

	if v, ok := extractor.FindField(payload, "vehicleStatistic"); ok {
		if obj, ok := v.(*models.Object); ok {
			vs := &a.rec.Vehicle
			vs.HeaderCompanyWithCount = fieldOrNil(obj, "headerCompanyWithCount")
			vs.HeaderCompanyWithoutCount = fieldOrNil(obj, "headerCompanyWithoutCount")
			vs.HeaderVehicleCount = fieldOrNil(obj, "headerVehicleCount")
			vs.Present = true
			vs.HasValues = anyNonNil(vs.values())
			if vs.HasValues {
				a.log.Info("found vehicle statistic")
			} else {
				a.log.Info("vehicle statistic present but all values are null")
			}
		}
	}
}

// Finalize derives the totals, deduplicates the kved list by canonical
// string form (first occurrence wins, order preserved) and freezes the
// record. Calling it again returns the same frozen record.
func (a *Accumulator) Finalize() *Record {
	rec := a.rec
	if rec.frozen {
		return rec
	}

	rec.FopCompanies.TotalCount = rec.FopCompanies.FopCount + rec.FopCompanies.CompaniesCount

	if len(rec.Kved.List) > 0 {
		seen := make(map[string]struct{}, len(rec.Kved.List))
		unique := make(models.Array, 0, len(rec.Kved.List))
		for _, v := range rec.Kved.List {
			key := models.Canonical(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, v)
		}
		rec.Kved.List = unique
	}
	rec.Kved.Count = len(rec.Kved.List)

	rec.frozen = true
	return rec
}

// StripCadastrNumbers returns a copy of the value with every
// "cadastrNumbers" member removed at all nesting levels; all other
// structure is preserved. The input is never mutated.
func StripCadastrNumbers(v models.Value) models.Value {
	switch t := v.(type) {
	case *models.Object:
		out := models.NewObject()
		for _, m := range t.Members() {
			if m.Key == "cadastrNumbers" {
				continue
			}
			out.Set(m.Key, StripCadastrNumbers(m.Value))
		}
		return out
	case models.Array:
		out := make(models.Array, 0, len(t))
		for _, el := range t {
			out = append(out, StripCadastrNumbers(el))
		}
		return out
	default:
		return t
	}
}

// intField returns the truncated integer value of a numeric member.
// Strings, booleans and nulls never coerce into sums.
func intField(obj *models.Object, key string) (int64, bool) {
	f, ok := numberField(obj, key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func numberField(obj *models.Object, key string) (float64, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func fieldOrNil(obj *models.Object, key string) models.Value {
	v, _ := obj.Get(key)
	return v
}
