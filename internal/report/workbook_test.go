package report

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dkravchenko/swotstat/internal/accumulator"
	"github.com/dkravchenko/swotstat/internal/errors"
	"github.com/dkravchenko/swotstat/internal/models"
)

func extractRecord(t *testing.T, jsonStr string) *accumulator.Record {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	dec.UseNumber()
	doc, err := models.DecodeValue(dec)
	require.NoError(t, err)
	return accumulator.Extract(doc, nil)
}

const fullReport = `{
	"data": {
		"fopStat": {"count": 3},
		"companyStat": {"count": 2},
		"kvedStatistic": [
			{"kvedId": "62.01", "name": "Computer programming", "qntRecord": 4}
		],
		"landStat": {"count": 10, "total_area": 120.5},
		"objectStat": {"count": 7},
		"procurementStat": {"count": 5, "total_amount": 900000},
		"migrationRegionStatistic": {"migrationTotalIn": 120, "migrationTotalOut": null},
		"cadastrEstateStatistic": {
			"byOwnerForm": {
				"totalStat": {"qntRecord": 1, "count": 15, "area": 300.5, "ngoPrice": 100000},
				"statistic": [
					{"name": "Приватна", "count": 12, "area": 250, "ngoPrice": 80000}
				]
			},
			"byPurpose": {
				"totalStat": {},
				"statistic": [
					{"name": "Житлова", "count": 9, "area": 120, "ngoPrice": 55000}
				]
			}
		},
		"statusStats": {
			"landStat": {"registered": 4, "pending": 1},
			"objectStat": {"registered": 2}
		},
		"intelligenceStatistic": [
			{"state": "registered", "qntRecord": 9}
		],
		"openCloseStatistic": {"companyOpen": 50, "fopOpen": 120},
		"vehicleStatistic": {"headerCompanyWithCount": 14, "headerVehicleCount": 38}
	}
}`

func TestWorkbook_EmptyRecord(t *testing.T) {
	a := accumulator.New(nil)
	_, err := NewSynthesizer(nil).Workbook(a.Finalize())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNothingToRender))
}

func TestWorkbook_SheetsInCategoryOrder(t *testing.T) {
	rec := extractRecord(t, fullReport)

	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	assert.Equal(t, []string{
		"ФОП_Компанії",
		"КВЕД",
		"Земельні_ділянки",
		"Об'єкти",
		"Закупівлі",
		"Міграція",
		"Кадастр_Власність",
		"Кадастр_Призначення",
		"Статуси",
		"Стани реєстрації",
		"Відкриті_Закриті",
		"Транспорт",
	}, wb.GetSheetList(), "default sheet is dropped, categories keep enumeration order")
}

func TestWorkbook_SkipsEmptyCategories(t *testing.T) {
	rec := extractRecord(t, `{"data": {"fopStat": {"count": 3}}}`)

	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	assert.Equal(t, []string{"ФОП_Компанії"}, wb.GetSheetList())
}

func TestWorkbook_FopCompaniesSheet(t *testing.T) {
	rec := extractRecord(t, fullReport)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	cell := func(ref string) string {
		v, err := wb.GetCellValue("ФОП_Компанії", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Показник", cell("A1"))
	assert.Equal(t, "Значення", cell("B1"))
	assert.Equal(t, "ФОП", cell("A2"))
	assert.Equal(t, "3", cell("B2"))
	assert.Equal(t, "Компанії", cell("A3"))
	assert.Equal(t, "2", cell("B3"))
	assert.Equal(t, "Всього", cell("A4"))
	assert.Equal(t, "5", cell("B4"))
}

func TestWorkbook_KvedSheetUsesStatistic(t *testing.T) {
	rec := extractRecord(t, fullReport)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	id, err := wb.GetCellValue("КВЕД", "A2")
	require.NoError(t, err)
	name, err := wb.GetCellValue("КВЕД", "B2")
	require.NoError(t, err)
	qnt, err := wb.GetCellValue("КВЕД", "C2")
	require.NoError(t, err)

	assert.Equal(t, "62.01", id)
	assert.Equal(t, "Computer programming", name)
	assert.Equal(t, "4", qnt)
}

func TestWorkbook_NullRendersAsZero(t *testing.T) {
	// migrationTotalOut is null in the source; the JSON artifact keeps
	// the null but the workbook shows zero.
	rec := extractRecord(t, fullReport)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	in, err := wb.GetCellValue("Міграція", "B2")
	require.NoError(t, err)
	out, err := wb.GetCellValue("Міграція", "B3")
	require.NoError(t, err)

	assert.Equal(t, "120", in)
	assert.Equal(t, "0", out)
}

func TestWorkbook_CadastrTotalRowDefaultsName(t *testing.T) {
	rec := extractRecord(t, fullReport)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	// totalStat has no name; the row falls back to the aggregate label.
	name, err := wb.GetCellValue("Кадастр_Власність", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Всього", name)

	// byPurpose has an empty totalStat, so its first row is the first
	// statistic entry.
	first, err := wb.GetCellValue("Кадастр_Призначення", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Житлова", first)
}

func TestWorkbook_StatusSheetUnionSorted(t *testing.T) {
	rec := extractRecord(t, fullReport)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	// Union of landStat and objectStat keys, sorted: pending before
	// registered. Missing counts render as zero.
	cell := func(ref string) string {
		v, err := wb.GetCellValue("Статуси", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "pending", cell("A2"))
	assert.Equal(t, "1", cell("B2"))
	assert.Equal(t, "0", cell("C2"))
	assert.Equal(t, "registered", cell("A3"))
	assert.Equal(t, "4", cell("B3"))
	assert.Equal(t, "2", cell("C3"))
}

func TestWorkbook_SaveProducesReadableFile(t *testing.T) {
	rec := extractRecord(t, `{"data": {"fopStat": {"count": 1}}}`)
	wb, err := NewSynthesizer(nil).Workbook(rec)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.NoError(t, wb.Close())

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	assert.Equal(t, []string{"ФОП_Компанії"}, reopened.GetSheetList())
}
