package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/material"
)

// materialsCommand prints the coefficient tables the sizing methods use.
func (c *CLI) materialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "Show material coefficients and zone multipliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var rows [][]string
			for _, m := range material.Materials() {
				p, err := material.Lookup(m)
				if err != nil {
					return err
				}
				row := []string{
					string(m),
					strconv.FormatFloat(p.Rho, 'g', -1, 64),
					strconv.FormatFloat(p.RhoStability, 'g', -1, 64),
					strconv.FormatFloat(p.Phi, 'g', -1, 64),
					strconv.FormatFloat(p.Psi, 'g', -1, 64),
				}
				for _, z := range material.Zones() {
					mu, err := material.ZoneMultiplier(m, z)
					if err != nil {
						return err
					}
					row = append(row, strconv.FormatFloat(mu, 'g', -1, 64))
				}
				rows = append(rows, row)
			}

			headers := []string{"Material", "rho (E&M)", "rho (Pilarczyk)", "phi (°)", "psi"}
			numeric := []int{1, 2, 3, 4}
			for i, z := range material.Zones() {
				headers = append(headers, "mu "+string(z))
				numeric = append(numeric, 5+i)
			}

			printHeading(out, "Revetment materials")
			fmt.Fprintln(out, renderTable(headers, rows, numeric...))
			return nil
		},
	}
}
