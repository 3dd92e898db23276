package testkit

import (
	"dataviz/domain/dataset"
)

// ThreeRowFixture is the three-row table used by the pipeline scenarios:
// two France rows (one with a negative correction) and one Germany row.
func ThreeRowFixture() *dataset.Table {
	row := func(date, location string, deaths float64) dataset.Row {
		return dataset.NewRow(map[string]dataset.Value{
			"date":       dataset.String(date),
			"location":   dataset.String(location),
			"new_deaths": dataset.Number(deaths),
		})
	}
	return dataset.NewTable([]string{"date", "location", "new_deaths"}, []dataset.Row{
		row("2021-01-05", "France", 10),
		row("2021-03-10", "France", -2),
		row("2021-02-01", "Germany", 5),
	})
}

// Table builds a table from column names and positional string cells.
// Empty strings become nulls.
func Table(columns []string, records ...[]string) *dataset.Table {
	rows := make([]dataset.Row, 0, len(records))
	for _, rec := range records {
		cells := make(map[string]dataset.Value, len(columns))
		for i, c := range columns {
			if i < len(rec) && rec[i] != "" {
				cells[c] = dataset.String(rec[i])
			} else {
				cells[c] = dataset.Null()
			}
		}
		rows = append(rows, dataset.NewRow(cells))
	}
	return dataset.NewTable(columns, rows)
}
