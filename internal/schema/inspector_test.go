package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/chart"
	"dataviz/domain/dataset"
	"dataviz/internal/normalize"
	"dataviz/internal/testkit"
)

func TestListColumns(t *testing.T) {
	assert.Equal(t, []string{"date", "location", "new_deaths"}, ListColumns(testkit.ThreeRowFixture()))

	cols := ListColumns(dataset.NewTable(nil, nil))
	assert.NotNil(t, cols)
	assert.Empty(t, cols)

	var missing *dataset.Table
	assert.Empty(t, ListColumns(missing))
}

func TestListColumnsIncludesDerived(t *testing.T) {
	res, err := normalize.NormalizeDates(testkit.ThreeRowFixture(), "date")
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "location", "new_deaths", "year", "month_name"}, ListColumns(res.Table))
}

func TestOptions(t *testing.T) {
	table := testkit.ThreeRowFixture()

	assert.Equal(t, []string{"date", "location", "new_deaths"}, Options(table, chart.RoleX))
	assert.Equal(t, []string{"date", "location", "new_deaths"}, Options(table, chart.RoleLayer1))
	assert.Equal(t, []string{None, "date", "location", "new_deaths"}, Options(table, chart.RoleLayer2))
	assert.Equal(t, []string{None, "date", "location", "new_deaths"}, Options(table, chart.RoleColor))
	assert.Equal(t, None, Options(table, chart.RoleDate)[0])
}

func TestProfile(t *testing.T) {
	profiles := Profile(testkit.ThreeRowFixture())
	require.Len(t, profiles, 3)

	byName := map[string]ColumnProfile{}
	for _, p := range profiles {
		byName[p.Name] = p
	}

	assert.Equal(t, coercer.ColumnDate, byName["date"].Type)
	assert.Equal(t, coercer.ColumnCategorical, byName["location"].Type)
	assert.Equal(t, 2, byName["location"].Unique)
	assert.Len(t, byName["location"].Samples, 2)

	deaths := byName["new_deaths"]
	assert.Equal(t, coercer.ColumnNumeric, deaths.Type)
	require.NotNil(t, deaths.Numeric)
	assert.Equal(t, 1, deaths.Numeric.Negative)
	assert.Equal(t, -2.0, deaths.Numeric.Min)
	assert.Nil(t, byName["location"].Numeric)
}

func TestProfileCountsMissing(t *testing.T) {
	table := testkit.Table([]string{"a"}, []string{"x"}, []string{""}, []string{"y"})
	p := Profile(table)[0]
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, 1, p.Missing)
}
