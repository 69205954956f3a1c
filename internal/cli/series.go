package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
)

// seriesCommand prints the aligned D50 series along the reach.
func (c *CLI) seriesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print both D50 estimates and their average along the reach",
		Long: `Print the chart series: the cumulative distance of each section and the
D50 from each method, plus their average. Any section that cannot be sized
stops the whole series with that section's error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := c.loadSequence(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				series, err := reach.Aggregate(seq.Sections())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(series); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode series")
				}
				return nil
			}

			rows, err := reach.Rows(seq.Sections())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printInfo(out, "No sections yet")
				return nil
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{
					strconv.Itoa(r.Index),
					r.Name,
					reach.FormatGeometry(r.Distance),
					reach.FormatDiameter(r.Empirical),
					reach.FormatDiameter(r.Stability),
					reach.FormatDiameter(r.Average()),
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Distance (m)", "E&M D50 (m)", "Pilarczyk D50 (m)", "Average (m)"},
				table, 0, 2, 3, 4, 5))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the series as JSON")
	return cmd
}
