package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"dataviz/internal/testkit"
)

const fixtureCSV = "date,location,new_deaths\n2021-01-05,France,10\n2021-03-10,France,-2\n2021-02-01,Germany,5\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "ERROR"))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestColumnsCmd(t *testing.T) {
	path := writeFile(t, "covid.csv", fixtureCSV)

	out, err := run(t, "columns", path)
	require.NoError(t, err)
	assert.JSONEq(t, `["date","location","new_deaths"]`, gjson.Get(out, "columns").Raw)
	assert.Equal(t, int64(3), gjson.Get(out, "rows").Int())

	out, err = run(t, "columns", path, "--role", "color")
	require.NoError(t, err)
	assert.JSONEq(t, `["","date","location","new_deaths"]`, gjson.Get(out, "options").Raw)
}

func TestProfileCmd(t *testing.T) {
	out, err := run(t, "profile", writeFile(t, "covid.csv", fixtureCSV))
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "#").Int())
	assert.Equal(t, "new_deaths", gjson.Get(out, "2.name").String())
	assert.Equal(t, float64(-2), gjson.Get(out, "2.numeric.min").Float())
}

func TestChartCmd_ParamsFile(t *testing.T) {
	data := writeFile(t, "covid.csv", fixtureCSV)
	params := writeFile(t, "chart.yaml", `date_column: date
date_from: 2021-01-01
date_to: 2021-02-28
archetype: sunburst
bindings:
  layer1: location
  value: new_deaths
`)

	out, err := run(t, "chart", data, "--params", params)
	require.NoError(t, err)
	assert.Equal(t, "ready", gjson.Get(out, "readiness").String())
	assert.Equal(t, int64(2), gjson.Get(out, "rows_out").Int())
	assert.JSONEq(t, `["location"]`, gjson.Get(out, "spec.path").Raw)

	// flags override the file: widening the window brings back the correction
	out, err = run(t, "chart", data, "--params", params, "--to", "2021-03-31")
	require.NoError(t, err)
	assert.Equal(t, "invalid", gjson.Get(out, "readiness").String())
	assert.Equal(t, int64(1), gjson.Get(out, "validation.affected_rows").Int())
}

func TestChartCmd_Flags(t *testing.T) {
	data := writeFile(t, "covid.csv", fixtureCSV)

	out, err := run(t, "chart", data,
		"--category-column", "location", "--category", "Germany",
		"--archetype", "bar", "--x", "location", "--y", "new_deaths", "--preview", "5")
	require.NoError(t, err)
	assert.Equal(t, "ready", gjson.Get(out, "readiness").String())
	assert.Equal(t, int64(1), gjson.Get(out, "rows_out").Int())
	assert.Equal(t, "Germany", gjson.Get(out, "preview.0.location").String())
	assert.JSONEq(t, `["France","Germany"]`, gjson.Get(out, "category_options").Raw)
}

func TestChartCmd_Errors(t *testing.T) {
	data := writeFile(t, "covid.csv", fixtureCSV)

	_, err := run(t, "chart", data, "--archetype", "radar")
	assert.Error(t, err)

	_, err = run(t, "chart", data, "--archetype", "bar", "--x", "location", "--y", "cases")
	assert.Error(t, err)

	_, err = run(t, "chart", data, "--params", writeFile(t, "bad.yaml", "unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = run(t, "chart", writeFile(t, "data.json", "{}"))
	assert.Error(t, err)
}

func TestDemoCmd(t *testing.T) {
	for _, name := range []string{"sample.csv", "sample.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			out, err := run(t, "demo", "--out", path, "--days", "10")
			require.NoError(t, err)
			rows := gjson.Get(out, "rows").Int()
			assert.Equal(t, int64(10*len(testkit.DefaultCovidConfig().Locations)), rows)

			cols, err := run(t, "columns", path)
			require.NoError(t, err)
			assert.Equal(t, rows, gjson.Get(cols, "rows").Int())
			assert.Equal(t, len(testkit.CovidColumns), len(gjson.Get(cols, "columns").Array()))
		})
	}
}
