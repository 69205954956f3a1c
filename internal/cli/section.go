package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
	"github.com/matzehuels/revetment/pkg/sizing"
)

// sectionFlag maps a command-line flag to a record field.
type sectionFlag struct {
	flag  string
	field string
	usage string
}

var sectionFlags = []sectionFlag{
	{"name", section.FieldName, "section name"},
	{"velocity", section.FieldVelocity, "mean channel velocity, m/s (max 4)"},
	{"flow-rate", section.FieldFlowRate, "flow rate, m³/s"},
	{"invert-elevation", section.FieldInvertElevation, "bed elevation, mAD"},
	{"ds-invert-elevation", section.FieldDownstreamInvertElevation, "downstream bed elevation, mAD"},
	{"ds-reach-length", section.FieldDownstreamReachLength, "distance to the next section, m"},
	{"water-level", section.FieldWaterLevel, "water surface elevation, mAD"},
	{"bank-slope", section.FieldBankSlope, "bank slope ratio"},
	{"revetment-type", section.FieldRevetmentType, "riprap, gabion or concrete"},
	{"turbulence-intensity", section.FieldTurbulenceIntensity, "turbulence intensity"},
	{"turbulence-factor", section.FieldTurbulenceFactor, "turbulence factor kt"},
	{"boundary-layer", section.FieldBoundaryLayer, "full or disrupted"},
	{"zone", section.FieldZone, "continuous or transition"},
}

// addSectionFlags registers one string flag per input field. Values stay
// strings so they go through the same parsing as imported records.
func addSectionFlags(flags *pflag.FlagSet) {
	for _, f := range sectionFlags {
		flags.String(f.flag, "", f.usage)
	}
}

// changedFields returns the raw values of the section flags the user set.
func changedFields(flags *pflag.FlagSet) map[string]string {
	out := make(map[string]string)
	for _, f := range sectionFlags {
		if flags.Changed(f.flag) {
			v, _ := flags.GetString(f.flag)
			out[f.field] = v
		}
	}
	return out
}

// parsePosition converts a 1-based position argument into an index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "position must be a positive integer, got %q", arg)
	}
	return n - 1, nil
}

// sectionCommand creates the section management command.
func (c *CLI) sectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "section",
		Aliases: []string{"sections", "xs"},
		Short:   "Manage the river sections of the reach",
		Long: `Manage the ordered list of river sections.

Sections are kept in downstream order and addressed by their 1-based position.
Each section's downstream reach length is the distance to the next one.`,
	}

	cmd.AddCommand(c.sectionAddCommand())
	cmd.AddCommand(c.sectionEditCommand())
	cmd.AddCommand(c.sectionRemoveCommand())
	cmd.AddCommand(c.sectionMoveCommand())
	cmd.AddCommand(c.sectionListCommand())
	cmd.AddCommand(c.sectionShowCommand())

	return cmd
}

func (c *CLI) sectionAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a section at the downstream end",
		Example: `  revetment section add --name XS1 --velocity 2.5 --flow-rate 40 \
    --invert-elevation 10 --ds-invert-elevation 9.95 --ds-reach-length 120 \
    --water-level 12 --bank-slope 0.5 --revetment-type riprap \
    --turbulence-intensity 0.12 --turbulence-factor 1 \
    --boundary-layer full --zone continuous`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := section.ParseInputs(changedFields(cmd.Flags()))
			if err != nil {
				return err
			}

			var (
				added section.Section
				pos   int
			)
			err = c.withSequence(cmd.Context(), func(seq *reach.Sequence) (bool, error) {
				s, err := seq.Append(in)
				if err != nil {
					return false, err
				}
				added, pos = s, seq.Len()
				return true, nil
			})
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Added section %s at position %d", StyleNumber.Render(added.Name()), pos)
			return nil
		},
	}
	addSectionFlags(cmd.Flags())
	return cmd
}

func (c *CLI) sectionEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <position>",
		Short: "Change fields of a section",
		Long: `Change fields of a section. Only the flags you pass are updated; the
material and zone coefficients are looked up again from the new values.`,
		Example: `  revetment section edit 2 --velocity 3.1 --zone transition`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			fields := changedFields(cmd.Flags())
			if len(fields) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change: pass at least one field flag")
			}

			var edited section.Section
			err = c.withSequence(cmd.Context(), func(seq *reach.Sequence) (bool, error) {
				cur, err := seq.At(idx)
				if err != nil {
					return false, err
				}
				in := cur.Inputs()
				if err := section.ApplyFields(&in, fields); err != nil {
					return false, err
				}
				edited, err = seq.Edit(idx, func(dst *section.Inputs) { *dst = in })
				return err == nil, err
			})
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Updated section %d (%s)", idx+1, StyleNumber.Render(edited.Name()))
			return nil
		},
	}
	addSectionFlags(cmd.Flags())
	return cmd
}

func (c *CLI) sectionRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <position>",
		Aliases: []string{"rm"},
		Short:   "Remove a section",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			var removed section.Section
			err = c.withSequence(cmd.Context(), func(seq *reach.Sequence) (bool, error) {
				s, err := seq.At(idx)
				if err != nil {
					return false, err
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Remove section %d (%s)?", idx+1, s.Name())) {
					return false, nil
				}
				removed, err = seq.Remove(idx)
				return err == nil, err
			})
			if err != nil {
				return err
			}

			if removed.Name() == "" {
				printInfo(cmd.OutOrStdout(), "Nothing removed")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Removed section %s", StyleNumber.Render(removed.Name()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without asking")
	return cmd
}

func (c *CLI) sectionMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "move <from> <to>",
		Aliases: []string{"mv"},
		Short:   "Move a section to another position",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			err = c.withSequence(cmd.Context(), func(seq *reach.Sequence) (bool, error) {
				if err := seq.Move(from, to); err != nil {
					return false, err
				}
				return from != to, nil
			})
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Moved section %d to position %d", from+1, to+1)
			return nil
		},
	}
}

func (c *CLI) sectionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sections with both D50 estimates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := c.loadSequence(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if seq.Len() == 0 {
				printInfo(out, "No sections yet")
				printDetail(out, "Add one with: %s section add --help", appName)
				return nil
			}

			headers := []string{"#", "Name", "V (m/s)", "Q (m³/s)", "Invert", "DS invert", "DS length", "WL", "Bank", "Type", "ti", "kt", "Layer", "Zone", "E&M D50", "Pilarczyk D50"}
			var (
				rows   [][]string
				failed int
			)
			for i, s := range seq.Sections() {
				in := s.Inputs()
				emp, stab, ok := estimateCells(s)
				if !ok {
					failed++
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					in.Name,
					reach.FormatGeometry(in.Velocity),
					reach.FormatGeometry(in.FlowRate),
					reach.FormatGeometry(in.InvertElevation),
					reach.FormatGeometry(in.DownstreamInvertElevation),
					reach.FormatGeometry(in.DownstreamReachLength),
					reach.FormatGeometry(in.WaterLevel),
					reach.FormatGeometry(in.BankSlope),
					string(in.RevetmentType),
					reach.FormatGeometry(in.TurbulenceIntensity),
					reach.FormatGeometry(in.TurbulenceFactor),
					string(in.BoundaryLayer),
					string(in.Zone),
					emp,
					stab,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, 0, 2, 3, 4, 5, 6, 7, 8, 10, 11, 14, 15))
			if failed > 0 {
				printWarning(out, "%d of %d sections cannot be sized; series and plot will fail until they are fixed", failed, seq.Len())
			}
			return nil
		},
	}
}

// estimateCells formats both estimates for a table, showing the error code
// in place of a value when a method fails for this section.
func estimateCells(s section.Section) (empirical, stability string, ok bool) {
	ok = true
	cell := func(v float64, err error) string {
		if err != nil {
			ok = false
			return StyleError.Render(string(errors.GetCode(err)))
		}
		return reach.FormatDiameter(v)
	}
	empirical = cell(sizing.EmpiricalD50(s))
	stability = cell(sizing.StabilityD50(s))
	return empirical, stability, ok
}

func (c *CLI) sectionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <position>",
		Short: "Show one section's inputs, derived values and estimates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			seq, err := c.loadSequence(cmd.Context())
			if err != nil {
				return err
			}
			s, err := seq.At(idx)
			if err != nil {
				return err
			}
			showSection(cmd.OutOrStdout(), idx, s, reach.Distances(seq.Sections())[idx])
			return nil
		},
	}
}

func showSection(w io.Writer, idx int, s section.Section, distance float64) {
	in := s.Inputs()
	p := s.Properties()

	printHeading(w, fmt.Sprintf("Section %d: %s", idx+1, in.Name))
	printKeyValue(w, "Velocity", reach.FormatGeometry(in.Velocity)+" m/s")
	printKeyValue(w, "Flow rate", reach.FormatGeometry(in.FlowRate)+" m³/s")
	printKeyValue(w, "Invert elevation", reach.FormatGeometry(in.InvertElevation)+" mAD")
	printKeyValue(w, "DS invert elevation", reach.FormatGeometry(in.DownstreamInvertElevation)+" mAD")
	printKeyValue(w, "DS reach length", reach.FormatGeometry(in.DownstreamReachLength)+" m")
	printKeyValue(w, "Water level", reach.FormatGeometry(in.WaterLevel)+" mAD")
	printKeyValue(w, "Bank slope", reach.FormatGeometry(in.BankSlope))
	printKeyValue(w, "Revetment", joinDim(string(in.RevetmentType), string(in.Zone)))
	printKeyValue(w, "Turbulence", fmt.Sprintf("ti %s, kt %s", reach.FormatGeometry(in.TurbulenceIntensity), reach.FormatGeometry(in.TurbulenceFactor)))
	printKeyValue(w, "Boundary layer", string(in.BoundaryLayer))

	fmt.Fprintln(w)
	printHeading(w, "Derived")
	printKeyValue(w, "Chainage", reach.FormatGeometry(distance)+" m")
	printKeyValue(w, "Depth", reach.FormatGeometry(s.Depth())+" m")
	printKeyValue(w, "Bed slope", strconv.FormatFloat(s.Slope(), 'g', 4, 64))
	printKeyValue(w, "Bank angle", fmt.Sprintf("%.2f°", s.BankAngle()))
	printKeyValue(w, "Coefficients", fmt.Sprintf("rho %g, rhoStability %g, phi %g°, psi %g, mu %g", p.Rho, p.RhoStability, p.Phi, p.Psi, s.Mu()))
	if ks, err := sizing.SideSlopeFactor(s); err != nil {
		printKeyValue(w, "Side slope factor ks", StyleError.Render(errors.UserMessage(err)))
	} else {
		printKeyValue(w, "Side slope factor ks", strconv.FormatFloat(ks, 'f', 4, 64))
	}

	fmt.Fprintln(w)
	printHeading(w, "Estimates")
	if v, err := sizing.EmpiricalD50(s); err != nil {
		printKeyValue(w, "Escarameia & May", StyleError.Render(errors.UserMessage(err)))
	} else {
		printKeyValue(w, "Escarameia & May", reach.FormatDiameter(v)+" m")
	}
	if sol, err := sizing.SolveStabilityDn50(s); err != nil {
		printKeyValue(w, "Pilarczyk", StyleError.Render(errors.UserMessage(err)))
	} else {
		printKeyValue(w, "Pilarczyk", fmt.Sprintf("%s m %s", reach.FormatDiameter(sol.D50()),
			StyleDim.Render(fmt.Sprintf("(dn50 %s m, %d iterations)", reach.FormatDiameter(sol.Dn50), sol.Iterations))))
	}
}

// confirm asks a yes/no question on w and reads the answer from r.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s %s ", question, StyleDim.Render("[y/N]"))
	answer, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
