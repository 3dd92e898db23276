package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal/testkit"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDates_ThreeRowFixture(t *testing.T) {
	res, err := NormalizeDates(testkit.ThreeRowFixture(), "date")
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "location", "new_deaths", dataset.ColumnYear, dataset.ColumnMonthName}, res.Table.Columns())
	require.Equal(t, 3, res.Table.Len())
	assert.Equal(t, 0, res.Dropped)

	for i := 0; i < res.Table.Len(); i++ {
		assert.Equal(t, "2021", res.Table.Value(i, dataset.ColumnYear).Key())
		assert.Equal(t, dataset.KindDate, res.Table.Value(i, "date").Kind())
	}
	assert.Equal(t, "January", res.Table.Value(0, dataset.ColumnMonthName).Key())
	assert.Equal(t, "March", res.Table.Value(1, dataset.ColumnMonthName).Key())

	require.NotNil(t, res.Bounds)
	assert.Equal(t, day(2021, 1, 5), res.Bounds.Min)
	assert.Equal(t, day(2021, 3, 10), res.Bounds.Max)
}

func TestNormalizeDates_DropsUnparseable(t *testing.T) {
	table := testkit.Table([]string{"date", "v"},
		[]string{"2021-01-05", "a"},
		[]string{"garbage", "b"},
		[]string{"", "c"},
		[]string{"2020/12/31", "d"},
	)

	res, err := NormalizeDates(table, "date")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, "a", res.Table.Value(0, "v").Key())
	assert.Equal(t, "d", res.Table.Value(1, "v").Key())
	assert.Equal(t, "2020", res.Table.Value(1, dataset.ColumnYear).Key())
	assert.Equal(t, day(2020, 12, 31), res.Bounds.Min)
	assert.Equal(t, day(2021, 1, 5), res.Bounds.Max)

	// the input table is untouched
	assert.Equal(t, 4, table.Len())
	assert.False(t, table.HasColumn(dataset.ColumnYear))
}

func TestNormalizeDates_EmptyResultHasNoBounds(t *testing.T) {
	table := testkit.Table([]string{"date"}, []string{"nope"}, []string{"still no"})

	res, err := NormalizeDates(table, "date")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Len())
	assert.Nil(t, res.Bounds)
	assert.True(t, res.Table.HasColumn(dataset.ColumnMonthName))

	res, err = NormalizeDates(dataset.NewTable([]string{"date"}, nil), "date")
	require.NoError(t, err)
	assert.Nil(t, res.Bounds)
}

func TestNormalizeDates_UnknownColumn(t *testing.T) {
	_, err := NormalizeDates(testkit.ThreeRowFixture(), "day")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
	assert.True(t, core.IsConfigurationError(err))
}

func TestNormalizeDates_Idempotent(t *testing.T) {
	table := testkit.NewCovidGenerator(testkit.DefaultCovidConfig()).Generate()

	first, err := NormalizeDates(table, "date")
	require.NoError(t, err)
	second, err := NormalizeDates(first.Table, "date")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Dropped)
	assert.Equal(t, first.Bounds, second.Bounds)
	assert.Equal(t, first.Table.Columns(), second.Table.Columns())
	require.Equal(t, first.Table.Len(), second.Table.Len())
	for i := 0; i < first.Table.Len(); i++ {
		for _, c := range first.Table.Columns() {
			assert.True(t, first.Table.Value(i, c).Equal(second.Table.Value(i, c)), "row %d column %s", i, c)
		}
	}
}

func TestNormalizeDates_NeverGrowsAndAlwaysParses(t *testing.T) {
	config := testkit.DefaultCovidConfig()
	config.BadDateRate = 0.25
	table := testkit.NewCovidGenerator(config).Generate()

	res, err := NormalizeDates(table, "date")
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Table.Len(), table.Len())
	assert.Equal(t, table.Len(), res.Table.Len()+res.Dropped)
	for i := 0; i < res.Table.Len(); i++ {
		d, ok := res.Table.Value(i, "date").AsDate()
		require.True(t, ok, "row %d", i)
		assert.True(t, res.Bounds.Contains(core.CalendarDate(d)))
	}
}

func TestNormalizeDates_DateColumnNamedLikeDerivedField(t *testing.T) {
	for _, name := range []string{dataset.ColumnYear, dataset.ColumnMonthName} {
		t.Run(name, func(t *testing.T) {
			table := testkit.Table([]string{name, "v"},
				[]string{"2021-03-04", "a"},
				[]string{"2021-05-06", "b"},
			)

			res, err := NormalizeDates(table, name)
			require.NoError(t, err)
			require.Equal(t, 2, res.Table.Len())
			assert.Equal(t, []string{name, "v", otherDerived(name)}, res.Table.Columns())

			for i := 0; i < res.Table.Len(); i++ {
				assert.Equal(t, dataset.KindDate, res.Table.Value(i, name).Kind())
			}
			got, _ := res.Table.Value(0, name).AsDate()
			assert.Equal(t, day(2021, 3, 4), got)

			// bounds are dates present in the surviving rows
			require.NotNil(t, res.Bounds)
			assert.Equal(t, day(2021, 3, 4), res.Bounds.Min)
			assert.Equal(t, day(2021, 5, 6), res.Bounds.Max)
		})
	}
}

func otherDerived(name string) string {
	if name == dataset.ColumnYear {
		return dataset.ColumnMonthName
	}
	return dataset.ColumnYear
}
