package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal/normalize"
	"dataviz/internal/testkit"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func normalized(t *testing.T, table *dataset.Table) *dataset.Table {
	t.Helper()
	res, err := normalize.NormalizeDates(table, "date")
	require.NoError(t, err)
	return res.Table
}

func locations(table *dataset.Table) []string {
	out := make([]string, table.Len())
	for i := range out {
		out[i] = table.Value(i, "location").Key()
	}
	return out
}

func TestApply_DateRangeInclusive(t *testing.T) {
	table := normalized(t, testkit.ThreeRowFixture())

	out, err := Apply(table, dataset.FilterSpec{
		Date: &dataset.DateRange{Column: "date", From: date(2021, 1, 1), To: date(2021, 2, 28)},
	})
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"France", "Germany"}, locations(out))
	n, _ := out.Value(0, "new_deaths").AsNumber()
	assert.Equal(t, 10.0, n)

	// bounds equal to observed dates keep those rows
	out, err = Apply(table, dataset.FilterSpec{
		Date: &dataset.DateRange{Column: "date", From: date(2021, 1, 5), To: date(2021, 1, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestApply_DateRangeIgnoresTimeOfDay(t *testing.T) {
	table := normalized(t, testkit.Table([]string{"date", "location"},
		[]string{"2021-02-28T23:30:00Z", "late"},
		[]string{"2021-03-01T00:00:00Z", "next"},
	))
	upper := time.Date(2021, 2, 28, 8, 0, 0, 0, time.UTC)

	out, err := Apply(table, dataset.FilterSpec{Date: &dataset.DateRange{Column: "date", To: &upper}})
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, locations(out))
}

func TestApply_OpenBounds(t *testing.T) {
	table := normalized(t, testkit.ThreeRowFixture())

	out, err := Apply(table, dataset.FilterSpec{Date: &dataset.DateRange{Column: "date", From: date(2021, 2, 1)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Germany"}, locations(out))

	out, err = Apply(table, dataset.FilterSpec{Date: &dataset.DateRange{Column: "date"}})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestApply_DateRangeOnRawStrings(t *testing.T) {
	table := testkit.Table([]string{"date", "location"},
		[]string{"2021-01-05", "a"},
		[]string{"bogus", "b"},
	)
	out, err := Apply(table, dataset.FilterSpec{Date: &dataset.DateRange{Column: "date", From: date(2020, 1, 1)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, locations(out))
}

func TestApply_Categorical(t *testing.T) {
	table := testkit.ThreeRowFixture()

	t.Run("single value", func(t *testing.T) {
		out, err := Apply(table, dataset.FilterSpec{
			Category: &dataset.CategoryFilter{Column: "location", Allowed: []string{"Germany"}},
		})
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "Germany", out.Value(0, "location").Key())
		assert.Equal(t, "2021-02-01", out.Value(0, "date").Key())
	})

	t.Run("empty allow-set excludes everything", func(t *testing.T) {
		out, err := Apply(table, dataset.FilterSpec{
			Category: &dataset.CategoryFilter{Column: "location", Allowed: []string{}},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
		assert.Equal(t, table.Columns(), out.Columns())

		out, err = Apply(table, dataset.FilterSpec{Category: &dataset.CategoryFilter{Column: "location"}})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})

	t.Run("no component passes everything", func(t *testing.T) {
		out, err := Apply(table, dataset.FilterSpec{})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
	})

	t.Run("default selection is a passthrough", func(t *testing.T) {
		allowed, err := DefaultAllowed(table, "location")
		require.NoError(t, err)
		assert.Equal(t, []string{"France", "Germany"}, allowed)

		out, err := Apply(table, dataset.FilterSpec{
			Category: &dataset.CategoryFilter{Column: "location", Allowed: allowed},
		})
		require.NoError(t, err)
		assert.Equal(t, locations(table), locations(out))
	})

	t.Run("numbers match by canonical key", func(t *testing.T) {
		out, err := Apply(table, dataset.FilterSpec{
			Category: &dataset.CategoryFilter{Column: "new_deaths", Allowed: []string{"-2", "5"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"France", "Germany"}, locations(out))
	})
}

func TestApply_Conjunction(t *testing.T) {
	table := normalized(t, testkit.ThreeRowFixture())

	out, err := Apply(table, dataset.FilterSpec{
		Date:     &dataset.DateRange{Column: "date", From: date(2021, 1, 1), To: date(2021, 2, 28)},
		Category: &dataset.CategoryFilter{Column: "location", Allowed: []string{"France"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "2021-01-05", out.Value(0, "date").Key())
}

func TestApply_UnknownColumns(t *testing.T) {
	table := testkit.ThreeRowFixture()

	_, err := Apply(table, dataset.FilterSpec{Date: &dataset.DateRange{Column: "day"}})
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	_, err = Apply(table, dataset.FilterSpec{Category: &dataset.CategoryFilter{Column: "country", Allowed: []string{"France"}}})
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	_, err = DefaultAllowed(table, "country")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}

func TestApply_WorkersPreserveOrder(t *testing.T) {
	config := testkit.DefaultCovidConfig()
	config.Days = 400
	table := normalized(t, testkit.NewCovidGenerator(config).Generate())

	spec := dataset.FilterSpec{
		Date:     &dataset.DateRange{Column: "date", From: date(2021, 3, 1), To: date(2021, 12, 31)},
		Category: &dataset.CategoryFilter{Column: "continent", Allowed: []string{"Europe", "Asia"}},
	}

	sequential, err := Apply(table, spec)
	require.NoError(t, err)
	parallel, err := Apply(table, spec, WithWorkers(4))
	require.NoError(t, err)

	require.Greater(t, sequential.Len(), 0)
	require.Equal(t, sequential.Len(), parallel.Len())
	for i := 0; i < sequential.Len(); i++ {
		assert.Equal(t, sequential.Value(i, "date").Key(), parallel.Value(i, "date").Key())
		assert.Equal(t, sequential.Value(i, "location").Key(), parallel.Value(i, "location").Key())
	}
}

func TestApply_SurvivalMatchesPredicates(t *testing.T) {
	table := normalized(t, testkit.NewCovidGenerator(testkit.DefaultCovidConfig()).Generate())
	from, to := date(2021, 1, 20), date(2021, 2, 10)
	allowed := map[string]bool{"Japan": true, "Brazil": true}

	out, err := Apply(table, dataset.FilterSpec{
		Date:     &dataset.DateRange{Column: "date", From: from, To: to},
		Category: &dataset.CategoryFilter{Column: "location", Allowed: []string{"Japan", "Brazil"}},
	})
	require.NoError(t, err)

	expected := 0
	for i := 0; i < table.Len(); i++ {
		d, _ := table.Value(i, "date").AsDate()
		if !d.Before(*from) && !d.After(*to) && allowed[table.Value(i, "location").Key()] {
			expected++
		}
	}
	assert.Equal(t, expected, out.Len())
	for i := 0; i < out.Len(); i++ {
		d, _ := out.Value(i, "date").AsDate()
		assert.True(t, allowed[out.Value(i, "location").Key()])
		assert.False(t, d.Before(*from) || d.After(*to))
	}
}
