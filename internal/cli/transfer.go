package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/errors"
	rio "github.com/matzehuels/revetment/pkg/io"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
)

// stdio is the path argument that selects stdin or stdout.
const stdio = "-"

func (c *CLI) importCommand() *cobra.Command {
	var (
		appendTo bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load sections from a JSON or YAML file",
		Long: `Load sections from a JSON or YAML file, replacing the stored list.

Every record is validated and its material coefficients are looked up again.
Records carrying coefficients that disagree with the tables are rejected.
Files saved by the browser calculator are accepted as well. Use "-" to read
from stdin.`,
		Example: `  revetment import reach.json
  revetment import --append extra.yaml
  cat reach.yaml | revetment import -F yaml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				sections []section.Section
				err      error
			)
			if path == stdio {
				sections, err = readStdin(cmd, format)
			} else {
				if err := errors.ValidatePath(path); err != nil {
					return err
				}
				sections, err = rio.Import(path)
			}
			if err != nil {
				return err
			}

			var total int
			err = c.withSequence(cmd.Context(), func(seq *reach.Sequence) (bool, error) {
				if !appendTo {
					seq.Replace(sections...)
				} else {
					for _, s := range sections {
						if _, err := seq.Append(s.Inputs()); err != nil {
							return false, err
						}
					}
				}
				total = seq.Len()
				return true, nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Imported %d sections", len(sections))
			printDetail(out, "%d sections stored", total)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&appendTo, "append", "a", false, "append to the stored sections instead of replacing them")
	cmd.Flags().StringVarP(&format, "format", "F", rio.FormatJSON, "stdin format: json or yaml")
	return cmd
}

func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the sections to a JSON or YAML file",
		Long: `Write the stored sections as records, including their joined material
coefficients. The format follows the file extension. Use "-" for stdout.`,
		Example: `  revetment export reach.json
  revetment export -F yaml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			seq, err := c.loadSequence(cmd.Context())
			if err != nil {
				return err
			}

			if path == stdio {
				switch strings.ToLower(format) {
				case rio.FormatJSON:
					return rio.WriteJSON(cmd.OutOrStdout(), seq.Sections())
				case rio.FormatYAML, "yml":
					return rio.WriteYAML(cmd.OutOrStdout(), seq.Sections())
				}
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be json or yaml)", format)
			}

			if err := errors.ValidatePath(path); err != nil {
				return err
			}
			if err := rio.Export(path, seq.Sections()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %d sections", seq.Len())
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "F", rio.FormatJSON, "stdout format: json or yaml")
	return cmd
}

func readStdin(cmd *cobra.Command, format string) ([]section.Section, error) {
	switch strings.ToLower(format) {
	case rio.FormatJSON:
		return rio.ReadJSON(cmd.InOrStdin())
	case rio.FormatYAML, "yml":
		return rio.ReadYAML(cmd.InOrStdin())
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be json or yaml)", format)
}
