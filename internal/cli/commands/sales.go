package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/chart"
	"github.com/leapstack-labs/dashkit/internal/cli/config"
	"github.com/leapstack-labs/dashkit/internal/cli/output"
	"github.com/leapstack-labs/dashkit/internal/dashboard"
)

// SalesOptions holds options for the sales command.
type SalesOptions struct {
	Region  string
	Product string
	Units   string
	Search  string
	Chart   string
}

// salesReport is the JSON form of the sales dashboard.
type salesReport struct {
	*dashboard.SalesView
	Results *output.TableData `json:"results"`
}

// NewSalesCommand creates the sales command.
func NewSalesCommand() *cobra.Command {
	opts := &SalesOptions{}

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Show the sales dashboard",
		Long: `Render the sales dashboard from the sales dataset.

Filters apply in order: region, product, units sold window, then a
case-insensitive search on the product name. Product choices and the units
bounds come from the rows left by the filters before them. A region or
product that does not exist falls back to All.

The filtered rows are followed by total revenue per date. Use --chart to
also write the revenue line chart as SVG.`,
		Example: `  # All sales in the default units window
  dashkit sales

  # West region widgets with 20 to 50 units
  dashkit sales --region West --product Widget --units 20-50

  # Write the revenue chart
  dashkit sales --chart revenue.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSales(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", dashboard.All, "Region to show")
	cmd.Flags().StringVar(&opts.Product, "product", dashboard.All, "Product to show")
	cmd.Flags().StringVar(&opts.Units, "units", "", "Units sold window as LO-HI (default from config)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Search product names")
	cmd.Flags().StringVar(&opts.Chart, "chart", "", "Write the revenue chart as SVG to this file")

	return cmd
}

func runSales(cmd *cobra.Command, opts *SalesOptions) error {
	params := dashboard.SalesParams{
		Region:  opts.Region,
		Product: opts.Product,
		Search:  opts.Search,
	}
	if opts.Units != "" {
		w, err := config.ParseWindow(opts.Units)
		if err != nil {
			return fmt.Errorf("--units: %w", err)
		}
		params.Units = &w
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ds, msg := dashboard.Load(cmd.Context(), cc.NewCache(), cc.Cfg.Data.Sales, dashboard.MsgSalesMissing, cc.Logger)
	v, err := dashboard.Sales(ds, params, cc.Cfg.SalesOptions())
	if err != nil {
		cc.Logger.Error("failed to render sales dashboard", "error", err)
		v = &dashboard.SalesView{Title: dashboard.SalesTitle, Error: err.Error()}
	} else {
		v.Error = msg
	}

	if opts.Chart != "" {
		if err := writeChart(opts.Chart, v); err != nil {
			return err
		}
	}

	return renderSales(cc.Renderer, v, opts.Chart)
}

func writeChart(path string, v *dashboard.SalesView) (err error) {
	if len(v.Revenue) == 0 {
		return nil
	}
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := chart.RevenueSVG(f, v.Revenue); err != nil && !errors.Is(err, chart.ErrNoData) {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func renderSales(r *output.Renderer, v *dashboard.SalesView, chartPath string) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(salesReport{SalesView: v, Results: output.NewTableData(v.Results)})
	}

	r.Header(1, v.Title)
	if v.Error != "" {
		r.Error(v.Error)
	}
	if v.Warning != "" {
		r.Warning(v.Warning)
		return nil
	}
	if v.Results == nil {
		return nil
	}

	r.Println(output.FormatKeyValue("Region", v.Region))
	r.Println(output.FormatKeyValue("Product", v.Product))
	r.Println(output.FormatKeyValue("Units Sold Range", fmt.Sprintf("%s - %s", windowEnd(v.UnitsWindow.Lo), windowEnd(v.UnitsWindow.Hi))))
	if v.Search != "" {
		r.Println(output.FormatKeyValue("Search Product", v.Search))
	}
	r.Println("")

	r.Header(2, "Sales Data")
	r.Table(v.Results)

	r.Header(2, "Revenue by Date")
	r.Series("date", "revenue", v.Revenue)

	if chartPath != "" {
		if len(v.Revenue) == 0 {
			r.Muted("No revenue to chart.")
		} else {
			r.StatusLine(chartPath, "success", "revenue chart")
		}
	}
	return nil
}
