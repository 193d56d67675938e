package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dkravchenko/swotstat/internal/accumulator"
	"github.com/dkravchenko/swotstat/internal/errors"
	"github.com/dkravchenko/swotstat/internal/matcher"
	"github.com/dkravchenko/swotstat/internal/models"
)

const (
	headerFillColor = "366092"
	maxColumnWidth  = 50
)

// sheetDef is one rendered worksheet: a fixed header row plus data
// rows. Sheet titles and headers keep the upstream report vocabulary.
type sheetDef struct {
	title  string
	header []string
	rows   [][]interface{}
}

// Workbook renders one sheet per non-empty category, in CategoryKey
// enumeration order. A record with no non-empty category yields
// ErrNothingToRender; callers degrade to the JSON-only outcome.
// Numeric nulls render as zero here, unlike the JSON artifact, which
// preserves null.
func (s *Synthesizer) Workbook(rec *accumulator.Record) (*excelize.File, error) {
	defs := sheetDefs(rec)
	if len(defs) == 0 {
		return nil, errors.NewSynthesisError("record has no values to render", errors.ErrNothingToRender)
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, errors.NewSynthesisError("failed to create header style", err)
	}

	firstIndex := -1
	for _, def := range defs {
		idx, err := s.renderSheet(f, def, headerStyle)
		if err != nil {
			return nil, err
		}
		if firstIndex < 0 {
			firstIndex = idx
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, errors.NewSynthesisError(fmt.Sprintf("failed to drop default sheet %q", defaultSheet), err)
	}
	f.SetActiveSheet(firstIndex)

	s.log.Info("workbook assembled", zap.Int("sheets", len(defs)))
	return f, nil
}

func (s *Synthesizer) renderSheet(f *excelize.File, def sheetDef, headerStyle int) (int, error) {
	idx, err := f.NewSheet(def.title)
	if err != nil {
		return 0, errors.NewSynthesisError(fmt.Sprintf("failed to create sheet %q", def.title), err)
	}

	header := make([]interface{}, len(def.header))
	widths := make([]int, len(def.header))
	for i, h := range def.header {
		header[i] = h
		widths[i] = len([]rune(h))
	}
	if err := f.SetSheetRow(def.title, "A1", &header); err != nil {
		return 0, errors.NewSynthesisError(fmt.Sprintf("failed to write header of %q", def.title), err)
	}

	lastHeaderCell, err := excelize.CoordinatesToCellName(len(def.header), 1)
	if err != nil {
		return 0, errors.NewSynthesisError("failed to address header row", err)
	}
	if err := f.SetCellStyle(def.title, "A1", lastHeaderCell, headerStyle); err != nil {
		return 0, errors.NewSynthesisError(fmt.Sprintf("failed to style header of %q", def.title), err)
	}

	for i, row := range def.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, errors.NewSynthesisError("failed to address data row", err)
		}
		if err := f.SetSheetRow(def.title, cell, &row); err != nil {
			return 0, errors.NewSynthesisError(fmt.Sprintf("failed to write row %d of %q", i+2, def.title), err)
		}
		for col, v := range row {
			if col >= len(widths) {
				break
			}
			if l := len([]rune(fmt.Sprint(v))); l > widths[col] {
				widths[col] = l
			}
		}
	}

	// Auto-size columns to the longest cell, capped.
	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return 0, errors.NewSynthesisError("failed to address column", err)
		}
		width := float64(w + 2)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(def.title, name, name, width); err != nil {
			return 0, errors.NewSynthesisError(fmt.Sprintf("failed to size column %s of %q", name, def.title), err)
		}
	}

	return idx, nil
}

// sheetDefs assembles the sheets for every non-empty category in
// enumeration order. CadastrEstate and StatusStats each expand into two
// sheets occupying their category's slot.
func sheetDefs(rec *accumulator.Record) []sheetDef {
	var defs []sheetDef
	for _, c := range matcher.Categories() {
		if rec.IsEmpty(c) {
			continue
		}
		switch c {
		case matcher.FopCompanies:
			defs = append(defs, sheetDef{
				title:  "ФОП_Компанії",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"ФОП", rec.FopCompanies.FopCount},
					{"Компанії", rec.FopCompanies.CompaniesCount},
					{"Всього", rec.FopCompanies.TotalCount},
				},
			})
		case matcher.Kved:
			defs = append(defs, kvedSheet(rec))
		case matcher.LandPlots:
			defs = append(defs, sheetDef{
				title:  "Земельні_ділянки",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Кількість", rec.LandPlots.Count},
					{"Загальна площа", rec.LandPlots.TotalArea},
				},
			})
		case matcher.Objects:
			defs = append(defs, sheetDef{
				title:  "Об'єкти",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Кількість", rec.Objects.Count},
				},
			})
		case matcher.PublicProcurements:
			defs = append(defs, sheetDef{
				title:  "Закупівлі",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Кількість", rec.PublicProcurements.Count},
					{"Загальна сума", rec.PublicProcurements.TotalAmount},
				},
			})
		case matcher.Migration:
			defs = append(defs, sheetDef{
				title:  "Міграція",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Міграція всього (вхід)", numOrZero(rec.Migration.TotalIn)},
					{"Міграція всього (вихід)", numOrZero(rec.Migration.TotalOut)},
					{"ФОП міграція (вхід)", numOrZero(rec.Migration.TotalFopIn)},
					{"ФОП міграція (вихід)", numOrZero(rec.Migration.TotalFopOut)},
					{"Компанії міграція (вхід)", numOrZero(rec.Migration.TotalCompanyIn)},
					{"Компанії міграція (вихід)", numOrZero(rec.Migration.TotalCompanyOut)},
				},
			})
		case matcher.CadastrEstate:
			defs = append(defs, cadastrSheets(rec)...)
		case matcher.StatusStats:
			defs = append(defs, statusSheets(rec)...)
		case matcher.OpenClose:
			defs = append(defs, sheetDef{
				title:  "Відкриті_Закриті",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Компанії відкриті", numOrZero(rec.OpenClose.CompanyOpen)},
					{"Компанії закриті", numOrZero(rec.OpenClose.CompanyCurrentClose)},
					{"Компанії % живих", numOrZero(rec.OpenClose.CompanyPercentLive)},
					{"ФОП відкриті", numOrZero(rec.OpenClose.FopOpen)},
					{"ФОП закриті", numOrZero(rec.OpenClose.FopCurrentClose)},
					{"ФОП % живих", numOrZero(rec.OpenClose.FopPercentLive)},
					{"Всього відкриті", numOrZero(rec.OpenClose.TotalOpen)},
					{"Всього закриті", numOrZero(rec.OpenClose.TotalCurrentClose)},
					{"Всього % живих", numOrZero(rec.OpenClose.TotalPercentLive)},
				},
			})
		case matcher.Vehicle:
			defs = append(defs, sheetDef{
				title:  "Транспорт",
				header: []string{"Показник", "Значення"},
				rows: [][]interface{}{
					{"Компанії з транспортними засобами", numOrZero(rec.Vehicle.HeaderCompanyWithCount)},
					{"Компанії без транспортних засобів", numOrZero(rec.Vehicle.HeaderCompanyWithoutCount)},
					{"Всього транспортних засобів", numOrZero(rec.Vehicle.HeaderVehicleCount)},
				},
			})
		}
	}
	return defs
}

func kvedSheet(rec *accumulator.Record) sheetDef {
	entries := rec.Kved.Statistic
	if len(entries) == 0 {
		entries = rec.Kved.List
	}
	rows := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		if obj, ok := entry.(*models.Object); ok {
			rows = append(rows, []interface{}{
				stringOrEmpty(fieldOrNil(obj, "kvedId")),
				stringOrEmpty(fieldOrNil(obj, "name")),
				numOrZero(fieldOrNil(obj, "qntRecord")),
			})
			continue
		}
		rows = append(rows, []interface{}{models.Canonical(entry), "", 0})
	}
	return sheetDef{
		title:  "КВЕД",
		header: []string{"КВЕД ID", "Назва", "Кількість записів"},
		rows:   rows,
	}
}

// cadastrSheets renders the byOwnerForm and byPurpose breakdowns of the
// stripped cadastre substructure, each as total row plus statistic
// rows.
func cadastrSheets(rec *accumulator.Record) []sheetDef {
	obj, ok := rec.CadastrEstate.(*models.Object)
	if !ok {
		return nil
	}
	var defs []sheetDef
	if def, ok := cadastrBreakdown(obj, "byOwnerForm", "Кадастр_Власність", "Тип власності"); ok {
		defs = append(defs, def)
	}
	if def, ok := cadastrBreakdown(obj, "byPurpose", "Кадастр_Призначення", "Призначення"); ok {
		defs = append(defs, def)
	}
	return defs
}

func cadastrBreakdown(cadastr *models.Object, key, title, nameHeader string) (sheetDef, bool) {
	v, ok := cadastr.Get(key)
	if !ok {
		return sheetDef{}, false
	}
	breakdown, ok := v.(*models.Object)
	if !ok || breakdown.Len() == 0 {
		return sheetDef{}, false
	}

	var rows [][]interface{}
	if t, ok := breakdown.Get("totalStat"); ok {
		if total, ok := t.(*models.Object); ok && total.Len() > 0 {
			name := stringOrEmpty(fieldOrNil(total, "name"))
			if name == "" {
				name = "Всього"
			}
			rows = append(rows, []interface{}{
				name,
				numOrZero(fieldOrNil(total, "count")),
				numOrZero(fieldOrNil(total, "area")),
				numOrZero(fieldOrNil(total, "ngoPrice")),
			})
		}
	}
	if l, ok := breakdown.Get("statistic"); ok {
		if list, ok := l.(models.Array); ok {
			for _, entry := range list {
				item, ok := entry.(*models.Object)
				if !ok {
					continue
				}
				rows = append(rows, []interface{}{
					stringOrEmpty(fieldOrNil(item, "name")),
					numOrZero(fieldOrNil(item, "count")),
					numOrZero(fieldOrNil(item, "area")),
					numOrZero(fieldOrNil(item, "ngoPrice")),
				})
			}
		}
	}
	if len(rows) == 0 {
		return sheetDef{}, false
	}
	return sheetDef{
		title:  title,
		header: []string{nameHeader, "Кількість", "Площа", "Ціна НГО"},
		rows:   rows,
	}, true
}

// statusSheets renders the statusStats land/object breakdown and the
// intelligence registration-state list.
func statusSheets(rec *accumulator.Record) []sheetDef {
	var defs []sheetDef

	if obj, ok := rec.StatusStats.Stats.(*models.Object); ok {
		landStat, _ := obj.Get("landStat")
		objectStat, _ := obj.Get("objectStat")
		land, _ := landStat.(*models.Object)
		object, _ := objectStat.(*models.Object)

		keys := make(map[string]struct{})
		if land != nil {
			for _, k := range land.Keys() {
				keys[k] = struct{}{}
			}
		}
		if object != nil {
			for _, k := range object.Keys() {
				keys[k] = struct{}{}
			}
		}
		if len(keys) > 0 {
			sorted := make([]string, 0, len(keys))
			for k := range keys {
				sorted = append(sorted, k)
			}
			sort.Strings(sorted)

			rows := make([][]interface{}, 0, len(sorted))
			for _, k := range sorted {
				rows = append(rows, []interface{}{
					k,
					numOrZero(objField(land, k)),
					numOrZero(objField(object, k)),
				})
			}
			defs = append(defs, sheetDef{
				title:  "Статуси",
				header: []string{"Статус", "Земельні ділянки", "Об'єкти"},
				rows:   rows,
			})
		}
	}

	if len(rec.StatusStats.Intelligence) > 0 {
		rows := make([][]interface{}, 0, len(rec.StatusStats.Intelligence))
		for _, entry := range rec.StatusStats.Intelligence {
			item, ok := entry.(*models.Object)
			if !ok {
				continue
			}
			rows = append(rows, []interface{}{
				stringOrEmpty(fieldOrNil(item, "state")),
				numOrZero(fieldOrNil(item, "qntRecord")),
			})
		}
		defs = append(defs, sheetDef{
			title:  "Стани реєстрації",
			header: []string{"Стан", "Кількість записів"},
			rows:   rows,
		})
	}

	return defs
}

func objField(obj *models.Object, key string) models.Value {
	if obj == nil {
		return nil
	}
	v, _ := obj.Get(key)
	return v
}

func fieldOrNil(obj *models.Object, key string) models.Value {
	v, _ := obj.Get(key)
	return v
}

// numOrZero converts a projected numeric value into a spreadsheet cell,
// rendering null as zero.
func numOrZero(v models.Value) interface{} {
	switch t := v.(type) {
	case nil:
		return 0
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return t
	}
}

func stringOrEmpty(v models.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
