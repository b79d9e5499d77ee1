package cli

import (
	"github.com/spf13/cobra"
)

func (a *cliApp) binCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bin",
		Aliases: []string{"recycle-bin"},
		Short:   "Manage the recycle bin",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List deleted items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.client().RecycleBin(a.ctx(cmd))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(w, entries)
			}
			if len(entries) == 0 {
				printf(w, "No deleted items found.\n")
				return nil
			}
			rows := make([][]any, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []any{e.ID, e.Name(), e.EntityType, e.DeletedAt.Local().Format("2006-01-02 15:04")})
			}
			renderTable(w, []string{"ID", "Name", "Entity", "Deleted"}, rows)
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a deleted item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.client().Restore(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Item restored as %s\n", doc.ID())
			return nil
		},
	}

	purge := &cobra.Command{
		Use:   "purge <id>",
		Short: "Permanently delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Purge(a.ctx(cmd), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Item permanently deleted\n")
			return nil
		},
	}

	var yes bool
	empty := &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				printf(cmd.OutOrStdout(), "Refusing to empty the recycle bin without --yes\n")
				return nil
			}
			n, err := a.client().EmptyBin(a.ctx(cmd))
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%d items deleted\n", n)
			return nil
		},
	}
	empty.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")

	cmd.AddCommand(list, restore, purge, empty)
	return cmd
}
