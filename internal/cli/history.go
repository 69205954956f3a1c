package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/store"
)

// historian returns st's snapshot history, if the backend keeps one.
func historian(st store.Store) (store.Historian, error) {
	h, ok := st.(store.Historian)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "history needs the sqlite storage backend")
	}
	return h, nil
}

func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List earlier saves of the section list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			h, err := historian(st)
			if err != nil {
				return err
			}
			snaps, err := h.History(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				printInfo(out, "No saves yet")
				return nil
			}
			rows := make([][]string, len(snaps))
			for i, s := range snaps {
				rows[i] = []string{s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), strconv.Itoa(s.Count)}
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Saved", "Sections"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of saves to show (0 for all)")
	return cmd
}

func (c *CLI) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore the section list from an earlier save",
		Long: `Restore the section list from an earlier save. The restored list is saved
again as the newest entry, so the current list stays in the history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			h, err := historian(st)
			if err != nil {
				return err
			}
			sections, err := h.LoadSnapshot(ctx, args[0])
			if err != nil {
				return err
			}
			if err := st.Save(ctx, sections); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Restored %d sections from %s", len(sections), StyleNumber.Render(args[0]))
			return nil
		},
	}
}
