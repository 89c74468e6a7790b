package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage today's focus tasks in the daily note",
	}

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add an open task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			task, err := journal.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", task.ID, task.Text)
			return nil
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List today's tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			tasks, err := journal.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks for today")
				return nil
			}
			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				status := "open"
				if task.Done {
					status = "done"
				}
				rows = append(rows, []string{task.ID, status, task.Text})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Status", "Task"}, rows, nil))
			fmt.Fprintf(out, "Note: %s\n", journal.Path())
			return nil
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:   "done <id>",
		Short: "Check off a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			task, err := journal.Complete(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s %s\n", task.ID, task.Text)
			return nil
		},
	})

	tasksCmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			if err := journal.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			return nil
		},
	})

	return tasksCmd
}
