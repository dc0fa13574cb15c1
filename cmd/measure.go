package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/measure-cli/internal/events"
	"github.com/sells-group/measure-cli/internal/panel"
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure a selection of features",
	Long: `Loads features from the given sources and prints the measurement panel
for the selected IDs: extent center for several features, length, area and
centroid for a single line or area, location for a single point.`,
	Example: `  measure-cli measure --geojson parks.geojson --select w12
  measure-cli measure --gpkg city.gpkg:roads --select r1,r2 --units imperial`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyDisplayFlags(cmd)
		if err := cfg.Validate("measure"); err != nil {
			return err
		}

		g, err := loadGraph(ctx, cmd)
		if err != nil {
			return err
		}

		p, err := newPanel(g)
		if err != nil {
			return err
		}

		selectStr, _ := cmd.Flags().GetString("select")
		toggle, _ := cmd.Flags().GetBool("toggle")
		asJSON, _ := cmd.Flags().GetBool("json")

		selection := splitAndTrim(selectStr)
		var last *panel.Result

		d := events.NewDispatcher()
		if err := p.Attach(d, func() []string { return selection }, func(r *panel.Result) {
			last = r
		}); err != nil {
			return err
		}
		defer p.Detach() //nolint:errcheck

		if toggle {
			p.Toggle()
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(last); err != nil {
				return eris.Wrap(err, "measure: encode result")
			}
			return nil
		}
		return last.WriteText(out)
	},
}

func init() {
	addSourceFlags(measureCmd)
	measureCmd.Flags().String("select", "", "comma-separated entity IDs to measure")
	measureCmd.Flags().Bool("toggle", false, "flip the unit system once before printing")
	measureCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(measureCmd)
}
