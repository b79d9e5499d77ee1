package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/asseta-api/pkg/apiclient"
)

func (a *cliApp) supportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Manage support tickets",
	}
	cmd.AddCommand(a.supportListCmd(), a.supportStatusCmd(), a.supportReplyCmd(), a.supportPDFCmd())
	return cmd
}

func (a *cliApp) supportListCmd() *cobra.Command {
	var f apiclient.TicketFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List support tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tickets, err := a.client().Tickets(a.ctx(cmd))
			if err != nil {
				return err
			}
			tickets = apiclient.FilterTickets(tickets, f)
			w := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(w, tickets)
			}
			if len(tickets) == 0 {
				printf(w, "No support tickets found\n")
				return nil
			}
			rows := make([][]any, 0, len(tickets))
			for i, t := range tickets {
				rows = append(rows, []any{
					i + 1, t.ID, t.Name, t.Subject, orDash(t.Priority), t.Status,
					t.CreatedAt.Local().Format("2006-01-02 15:04"), preview(t.AdminReply, 60),
				})
			}
			renderTable(w, []string{"#", "ID", "Name", "Subject", "Priority", "Status", "Created", "Reply"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "filter by status (open, in-progress, resolved)")
	cmd.Flags().StringVar(&f.Priority, "priority", "", "filter by priority (Low, Medium, High)")
	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive search on subject or name")
	return cmd
}

func (a *cliApp) supportStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <open|in-progress|resolved>",
		Short: "Change a ticket's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client().SetTicketStatus(a.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Ticket %s marked %s\n", t.ID, t.Status)
			return nil
		},
	}
}

func (a *cliApp) supportReplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reply <id> <message>",
		Short: "Save the admin reply and mark the ticket in-progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client().ReplyTicket(a.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Admin reply saved for %s (%s)\n", t.ID, t.Status)
			return nil
		},
	}
}

func (a *cliApp) supportPDFCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download a ticket as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.client().TicketPDF(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("ticket-%s.pdf", args[0])
			}
			if err := writeFile(out, data); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default ticket-<id>.pdf)")
	return cmd
}

func preview(s string, n int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
