package accumulator

import (
	"github.com/iancoleman/strcase"

	"github.com/dkravchenko/swotstat/internal/matcher"
	"github.com/dkravchenko/swotstat/internal/models"
)

// FopCompaniesStat holds the individual-entrepreneur and legal-entity
// running sums. TotalCount is derived at finalize time.
type FopCompaniesStat struct {
	FopCount       int64 `json:"fop_count"`
	CompaniesCount int64 `json:"companies_count"`
	TotalCount     int64 `json:"total_count"`
}

// KvedStat carries both kved tracks: the path-driven list accumulator
// (deduplicated at finalize) and the verbatim kvedStatistic
// substructure.
type KvedStat struct {
	List      models.Array `json:"kved_list"`
	Count     int          `json:"kved_count"`
	Statistic models.Array `json:"kved_statistic"`
}

type LandPlotsStat struct {
	Count     int64   `json:"count"`
	TotalArea float64 `json:"total_area"`
}

type ObjectsStat struct {
	Count int64 `json:"count"`
}

type ProcurementsStat struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// MigrationStat is the migrationRegionStatistic projection: exactly six
// named aggregates, the per-date list is dropped. Fields stay Value so
// JSON output preserves null for absent aggregates.
type MigrationStat struct {
	TotalIn         models.Value `json:"migrationTotalIn"`
	TotalOut        models.Value `json:"migrationTotalOut"`
	TotalFopIn      models.Value `json:"migrationTotalFopIn"`
	TotalFopOut     models.Value `json:"migrationTotalFopOut"`
	TotalCompanyIn  models.Value `json:"migrationTotalCompanyIn"`
	TotalCompanyOut models.Value `json:"migrationTotalCompanyOut"`

	// Present marks that the substructure was found at all; HasValues
	// that at least one retained field is non-null. Both drive
	// synthesis-time reporting only.
	Present   bool `json:"-"`
	HasValues bool `json:"-"`
}

func (m *MigrationStat) values() []models.Value {
	return []models.Value{
		m.TotalIn, m.TotalOut,
		m.TotalFopIn, m.TotalFopOut,
		m.TotalCompanyIn, m.TotalCompanyOut,
	}
}

// StatusStatsStat pairs the verbatim statusStats object (land/object
// sub-status counts) with the verbatim intelligenceStatistic list
// (per-registration-state record counts).
type StatusStatsStat struct {
	Stats        models.Value `json:"stats"`
	Intelligence models.Array `json:"intelligence_statistic"`
}

// OpenCloseStat is the openCloseStatistic projection: nine named
// fields, list fields dropped.
type OpenCloseStat struct {
	CompanyOpen         models.Value `json:"companyOpen"`
	CompanyCurrentClose models.Value `json:"companyCurrentClose"`
	CompanyPercentLive  models.Value `json:"companyPercentLive"`
	FopOpen             models.Value `json:"fopOpen"`
	FopCurrentClose     models.Value `json:"fopCurrentClose"`
	FopPercentLive      models.Value `json:"fopPercentLive"`
	TotalOpen           models.Value `json:"totalOpen"`
	TotalCurrentClose   models.Value `json:"totalCurrentClose"`
	TotalPercentLive    models.Value `json:"totalPercentLive"`

	Present   bool `json:"-"`
	HasValues bool `json:"-"`
}

func (o *OpenCloseStat) values() []models.Value {
	return []models.Value{
		o.CompanyOpen, o.CompanyCurrentClose, o.CompanyPercentLive,
		o.FopOpen, o.FopCurrentClose, o.FopPercentLive,
		o.TotalOpen, o.TotalCurrentClose, o.TotalPercentLive,
	}
}

// VehicleStat is the vehicleStatistic projection: three named fields.
type VehicleStat struct {
	HeaderCompanyWithCount    models.Value `json:"headerCompanyWithCount"`
	HeaderCompanyWithoutCount models.Value `json:"headerCompanyWithoutCount"`
	HeaderVehicleCount        models.Value `json:"headerVehicleCount"`

	Present   bool `json:"-"`
	HasValues bool `json:"-"`
}

func (v *VehicleStat) values() []models.Value {
	return []models.Value{
		v.HeaderCompanyWithCount,
		v.HeaderCompanyWithoutCount,
		v.HeaderVehicleCount,
	}
}

// Record is the per-document accumulator state: one entry per
// CategoryKey. It is created fresh per input document, populated during
// exactly one traversal pass, then frozen by Finalize and never mutated
// afterwards.
type Record struct {
	FopCompanies       FopCompaniesStat `json:"fop_companies"`
	Kved               KvedStat         `json:"kved"`
	LandPlots          LandPlotsStat    `json:"land_plots"`
	Objects            ObjectsStat      `json:"objects"`
	PublicProcurements ProcurementsStat `json:"public_procurements"`
	Migration          MigrationStat    `json:"migration"`
	CadastrEstate      models.Value     `json:"cadastr_estate"`
	StatusStats        StatusStatsStat  `json:"status_stats"`
	OpenClose          OpenCloseStat    `json:"open_close"`
	Vehicle            VehicleStat      `json:"vehicle"`

	frozen bool
}

// NewRecord creates an empty record. List accumulators start as empty
// arrays so empty categories serialize as [] rather than null.
func NewRecord() *Record {
	return &Record{
		Kved: KvedStat{
			List:      models.Array{},
			Statistic: models.Array{},
		},
		StatusStats: StatusStatsStat{
			Intelligence: models.Array{},
		},
	}
}

// Frozen reports whether Finalize has run.
func (r *Record) Frozen() bool {
	return r.frozen
}

// IsEmpty reports whether a category accumulated no values; empty
// categories are still emitted in the JSON artifact but get no
// workbook sheet.
func (r *Record) IsEmpty(c matcher.Category) bool {
	switch c {
	case matcher.FopCompanies:
		return r.FopCompanies.FopCount == 0 && r.FopCompanies.CompaniesCount == 0
	case matcher.Kved:
		return len(r.Kved.List) == 0 && len(r.Kved.Statistic) == 0
	case matcher.LandPlots:
		return r.LandPlots.Count == 0 && r.LandPlots.TotalArea == 0
	case matcher.Objects:
		return r.Objects.Count == 0
	case matcher.PublicProcurements:
		return r.PublicProcurements.Count == 0 && r.PublicProcurements.TotalAmount == 0
	case matcher.Migration:
		return !r.Migration.HasValues
	case matcher.CadastrEstate:
		return r.CadastrEstate == nil
	case matcher.StatusStats:
		return r.StatusStats.Stats == nil && len(r.StatusStats.Intelligence) == 0
	case matcher.OpenClose:
		return !r.OpenClose.HasValues
	case matcher.Vehicle:
		return !r.Vehicle.HasValues
	}
	return true
}

// HasAny reports whether any category accumulated at least one value.
func (r *Record) HasAny() bool {
	for _, c := range matcher.Categories() {
		if !r.IsEmpty(c) {
			return true
		}
	}
	return false
}

// RecordCounts reports per-category entry counts for the artifact
// metadata, keyed by the snake_case category name.
func (r *Record) RecordCounts() map[string]int {
	counts := make(map[string]int, len(categoryKeys()))
	for _, c := range matcher.Categories() {
		counts[strcase.ToSnake(c.String())] = r.countFor(c)
	}
	return counts
}

func categoryKeys() []matcher.Category {
	return matcher.Categories()
}

func (r *Record) countFor(c matcher.Category) int {
	switch c {
	case matcher.FopCompanies:
		return int(r.FopCompanies.TotalCount)
	case matcher.Kved:
		// Deduplicated path-driven list, falling back to the verbatim
		// substructure when the path scan found nothing.
		if r.Kved.Count > 0 {
			return r.Kved.Count
		}
		return len(r.Kved.Statistic)
	case matcher.LandPlots:
		return int(r.LandPlots.Count)
	case matcher.Objects:
		return int(r.Objects.Count)
	case matcher.PublicProcurements:
		return int(r.PublicProcurements.Count)
	case matcher.Migration:
		return countNonNil(r.Migration.values())
	case matcher.CadastrEstate:
		if r.CadastrEstate != nil {
			return 1
		}
		return 0
	case matcher.StatusStats:
		n := len(r.StatusStats.Intelligence)
		if r.StatusStats.Stats != nil {
			n++
		}
		return n
	case matcher.OpenClose:
		return countNonNil(r.OpenClose.values())
	case matcher.Vehicle:
		return countNonNil(r.Vehicle.values())
	}
	return 0
}

func countNonNil(values []models.Value) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}

func anyNonNil(values []models.Value) bool {
	return countNonNil(values) > 0
}
