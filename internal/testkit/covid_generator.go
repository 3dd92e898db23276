package testkit

import (
	"math"
	"math/rand"
	"time"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
)

// Location is one country series produced by the generator
type Location struct {
	ISOCode    string  `json:"iso_code"`
	Continent  string  `json:"continent"`
	Name       string  `json:"location"`
	Population float64 `json:"population"`
}

// CovidGeneratorConfig configures the OWID-style sample data generator
type CovidGeneratorConfig struct {
	Locations      []Location `json:"locations"`
	StartDate      time.Time  `json:"start_date"`
	Days           int        `json:"days"`
	CorrectionRate float64    `json:"correction_rate"` // share of rows reporting a negative new_deaths correction
	BadDateRate    float64    `json:"bad_date_rate"`   // share of rows whose date cell is unparseable
	Seed           int64      `json:"seed"`
}

// DefaultCovidConfig returns a small multi-continent dataset configuration
func DefaultCovidConfig() CovidGeneratorConfig {
	return CovidGeneratorConfig{
		Locations: []Location{
			{ISOCode: "FRA", Continent: "Europe", Name: "France", Population: 67_391_582},
			{ISOCode: "DEU", Continent: "Europe", Name: "Germany", Population: 83_240_525},
			{ISOCode: "TUR", Continent: "Asia", Name: "Turkey", Population: 84_339_067},
			{ISOCode: "JPN", Continent: "Asia", Name: "Japan", Population: 125_836_021},
			{ISOCode: "BRA", Continent: "South America", Name: "Brazil", Population: 212_559_409},
			{ISOCode: "USA", Continent: "North America", Name: "United States", Population: 331_002_647},
		},
		StartDate:      time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:           90,
		CorrectionRate: 0.02,
		BadDateRate:    0.01,
		Seed:           42,
	}
}

// CovidColumns is the column order of generated tables
var CovidColumns = []string{
	"iso_code", "continent", "location", "date",
	"total_cases", "new_cases", "total_deaths", "new_deaths", "population",
}

// CovidGenerator produces deterministic daily case and death series
type CovidGenerator struct {
	config CovidGeneratorConfig
	rng    *rand.Rand
}

// NewCovidGenerator creates a generator; equal seeds produce equal tables
func NewCovidGenerator(config CovidGeneratorConfig) *CovidGenerator {
	return &CovidGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns one row per location and day. Dates are text cells the way
// a CSV upload delivers them.
func (g *CovidGenerator) Generate() *dataset.Table {
	rows := make([]dataset.Row, 0, len(g.config.Locations)*g.config.Days)

	for _, loc := range g.config.Locations {
		// daily incidence per million, drifting around a location-specific level
		level := 50 + g.rng.Float64()*400
		fatality := 0.005 + g.rng.Float64()*0.02
		totalCases, totalDeaths := 0.0, 0.0

		for day := 0; day < g.config.Days; day++ {
			date := g.config.StartDate.AddDate(0, 0, day)

			level = math.Max(5, level*(1+g.rng.NormFloat64()*0.08))
			newCases := math.Round(level * loc.Population / 1e6)
			newDeaths := math.Round(newCases * fatality * (0.5 + g.rng.Float64()))

			if g.rng.Float64() < g.config.CorrectionRate {
				newDeaths = -math.Round(1 + g.rng.Float64()*math.Min(totalDeaths, 50))
			}

			totalCases += newCases
			totalDeaths = math.Max(0, totalDeaths+newDeaths)

			dateCell := dataset.String(core.FormatDate(date))
			if g.rng.Float64() < g.config.BadDateRate {
				dateCell = dataset.String("not-a-date")
			}

			rows = append(rows, dataset.NewRow(map[string]dataset.Value{
				"iso_code":     dataset.String(loc.ISOCode),
				"continent":    dataset.String(loc.Continent),
				"location":     dataset.String(loc.Name),
				"date":         dateCell,
				"total_cases":  dataset.Number(totalCases),
				"new_cases":    dataset.Number(newCases),
				"total_deaths": dataset.Number(totalDeaths),
				"new_deaths":   dataset.Number(newDeaths),
				"population":   dataset.Number(loc.Population),
			}))
		}
	}

	return dataset.NewTable(CovidColumns, rows)
}
