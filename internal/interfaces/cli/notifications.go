package cli

import (
	"github.com/spf13/cobra"
)

func (a *cliApp) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Read the notification feed",
	}
	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client().Notifications(a.ctx(cmd))
			if err != nil {
				return err
			}
			if unread {
				kept := items[:0]
				for _, n := range items {
					if !n.IsRead {
						kept = append(kept, n)
					}
				}
				items = kept
			}
			w := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(w, items)
			}
			if len(items) == 0 {
				printf(w, "No notifications yet.\n")
				return nil
			}
			rows := make([][]any, 0, len(items))
			for _, n := range items {
				read := " "
				if n.IsRead {
					read = "✓"
				}
				rows = append(rows, []any{n.ID, read, n.Title, n.Message, n.CreatedAt.Local().Format("2006-01-02 15:04")})
			}
			renderTable(w, []string{"ID", "Read", "Title", "Message", "Created"}, rows)
			return nil
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client().MarkRead(a.ctx(cmd), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Notification marked as read\n")
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().DeleteNotification(a.ctx(cmd), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Notification deleted\n")
			return nil
		},
	}

	cmd.AddCommand(list, read, del)
	return cmd
}

func (a *cliApp) activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client().Activity(a.ctx(cmd))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(w, items)
			}
			rows := make([][]any, 0, len(items))
			for _, it := range items {
				rows = append(rows, []any{it.CreatedAt.Local().Format("2006-01-02 15:04"), it.User, it.Action, it.Entity, orDash(it.Details)})
			}
			renderTable(w, []string{"When", "User", "Action", "Entity", "Details"}, rows)
			return nil
		},
	}
}
