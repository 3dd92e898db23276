package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"dataviz/adapters/excel"
	"dataviz/app"
	"dataviz/domain/chart"
	"dataviz/domain/dataset"
	"dataviz/internal"
	"dataviz/internal/config"
	"dataviz/internal/schema"
	"dataviz/internal/testkit"
)

func newColumnsCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "columns [data-file]",
		Short: "List the columns of a CSV or XLSX file",
		Long: `List the columns of a file in order. With --role, print the choices
offered for that role; optional roles include an empty "none" entry.

Example: dataviz-cli columns owid-covid-data.csv --role color`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0])
			if err != nil {
				return err
			}
			if role != "" {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"role":    role,
					"options": schema.Options(table, chart.Role(role)),
				})
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"columns": schema.ListColumns(table),
				"rows":    table.Len(),
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Print the options for a role (date, category-filter, x-axis, y-axis, color, hierarchy-layer-1, hierarchy-layer-2, aggregation-value)")
	return cmd
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [data-file]",
		Short: "Profile every column of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), schema.Profile(table))
		},
	}
}

// chartFlags mirror app.Request; set flags override the parameter file
type chartFlags struct {
	paramsFile string
	preview    int
	req        app.Request
	categories []string
}

func newChartCmd() *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "chart [data-file]",
		Short: "Run the pipeline and print the chart specification",
		Long: `Normalize, filter and shape a file into a chart specification.

Selections come from a YAML parameter file, from flags, or both:

  date_column: date
  date_from: 2021-01-01
  date_to: 2021-02-28
  category_column: location
  category_values: [France, Germany]
  archetype: sunburst
  bindings:
    layer1: continent
    layer2: location
    value: new_deaths

Example: dataviz-cli chart owid-covid-data.csv --params chart.yaml --to 2021-03-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			params, err := req.Params()
			if err != nil {
				return err
			}

			table, err := readTable(args[0])
			if err != nil {
				return err
			}

			pipeline := app.NewPipelineService(config.PipelineConfig{FilterWorkers: 1}, internal.DefaultLogger)
			out, err := pipeline.Run(cmd.Context(), table, params)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), struct {
				*app.Outcome
				Preview []map[string]dataset.Value `json:"preview"`
			}{out, out.Table.Head(f.preview)})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.paramsFile, "params", "", "YAML parameter file")
	flags.IntVar(&f.preview, "preview", 10, "Number of filtered rows to include")
	flags.StringVar(&f.req.DateColumn, "date-column", "", "Column to normalize as dates")
	flags.StringVar(&f.req.DateFrom, "from", "", "Window start, YYYY-MM-DD (default: earliest date)")
	flags.StringVar(&f.req.DateTo, "to", "", "Window end, YYYY-MM-DD (default: latest date)")
	flags.StringVar(&f.req.CategoryColumn, "category-column", "", "Column to filter by membership")
	flags.StringSliceVar(&f.categories, "category", nil, "Allowed category values (default: all)")
	flags.StringVar(&f.req.Archetype, "archetype", "", "scatter|line|bar|pie|histogram|heatmap|sunburst")
	flags.StringVar(&f.req.Bindings.X, "x", "", "Column for the x-axis role")
	flags.StringVar(&f.req.Bindings.Y, "y", "", "Column for the y-axis role")
	flags.StringVar(&f.req.Bindings.Color, "color", "", "Column for the color role")
	flags.StringVar(&f.req.Bindings.Layer1, "layer1", "", "Column for the first hierarchy layer")
	flags.StringVar(&f.req.Bindings.Layer2, "layer2", "", "Column for the second hierarchy layer")
	flags.StringVar(&f.req.Bindings.Value, "value", "", "Column for the aggregation value")
	return cmd
}

// request merges the parameter file with any flags set on the command line
func (f *chartFlags) request(cmd *cobra.Command) (app.Request, error) {
	var req app.Request
	if f.paramsFile != "" {
		data, err := os.ReadFile(f.paramsFile)
		if err != nil {
			return req, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse params file %s: %w", f.paramsFile, err)
		}
	}

	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("date-column", &req.DateColumn, f.req.DateColumn)
	set("from", &req.DateFrom, f.req.DateFrom)
	set("to", &req.DateTo, f.req.DateTo)
	set("category-column", &req.CategoryColumn, f.req.CategoryColumn)
	set("archetype", &req.Archetype, f.req.Archetype)
	set("x", &req.Bindings.X, f.req.Bindings.X)
	set("y", &req.Bindings.Y, f.req.Bindings.Y)
	set("color", &req.Bindings.Color, f.req.Bindings.Color)
	set("layer1", &req.Bindings.Layer1, f.req.Bindings.Layer1)
	set("layer2", &req.Bindings.Layer2, f.req.Bindings.Layer2)
	set("value", &req.Bindings.Value, f.req.Bindings.Value)
	if cmd.Flags().Changed("category") {
		req.CategoryValues = append([]string{}, f.categories...)
	}
	return req, nil
}

func newDemoCmd() *cobra.Command {
	var out string
	var days int
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a generated COVID-style sample file",
		Long: `Write a deterministic OWID-style dataset with daily cases and deaths per
country. A few rows carry negative death corrections or unparseable dates.

Example: dataviz-cli demo --out sample.xlsx --days 120 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileType, ok := excel.FileTypeOf(out)
			if !ok {
				return fmt.Errorf("unsupported output type %q (use .csv or .xlsx)", filepath.Ext(out))
			}

			cfg := testkit.DefaultCovidConfig()
			cfg.Days = days
			cfg.Seed = seed
			table := testkit.NewCovidGenerator(cfg).Generate()

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := excel.WriteTable(file, fileType, table); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"file":    out,
				"rows":    table.Len(),
				"columns": table.Columns(),
				"written": time.Now().UTC().Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "sample.csv", "Output file (.csv or .xlsx)")
	cmd.Flags().IntVar(&days, "days", testkit.DefaultCovidConfig().Days, "Days of data per location")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	return cmd
}

func readTable(path string) (*dataset.Table, error) {
	if _, ok := excel.FileTypeOf(path); !ok {
		return nil, fmt.Errorf("unsupported file type %q (use .csv or .xlsx)", filepath.Ext(path))
	}
	return excel.NewDataReader(path).ReadTable()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
