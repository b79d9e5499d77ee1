package cli

import (
	"github.com/spf13/cobra"
)

// columnas por colección, en el orden de la tabla.
var entityColumns = map[string][]string{
	"vendors":  {"name", "email", "phone", "company"},
	"products": {"name", "category", "price", "vendor", "quantity"},
	"assets":   {"name", "type", "assignedTo", "status", "purchaseDate"},
	"users":    {"username", "email", "role"},
}

func (a *cliApp) entityCmd(entity string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   entity,
		Short: "Manage " + entity,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List " + entity,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := a.client().List(a.ctx(cmd), entity)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(w, docs)
			}
			cols := entityColumns[entity]
			headers := append([]string{"ID"}, cols...)
			rows := make([][]any, 0, len(docs))
			for _, d := range docs {
				row := []any{d.ID()}
				for _, c := range cols {
					row = append(row, orDash(d.String(c)))
				}
				rows = append(rows, row)
			}
			renderTable(w, headers, rows)
			return nil
		},
	})
	return cmd
}

func (a *cliApp) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Move a document to the recycle bin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Delete(a.ctx(cmd), args[0], args[1]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s moved to recycle bin\n", args[0], args[1])
			return nil
		},
	}
}
