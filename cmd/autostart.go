package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"focusloop/internal/platform"
)

func newAutostartCommand() *cobra.Command {
	autostartCmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the tray app at login",
	}

	autostartCmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Register the tray app to start at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			if err := platform.NewService().EnableAutostart(appName, execPath, "run"); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Autostart enabled")
			return nil
		},
	})

	autostartCmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop starting the tray app at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := platform.NewService().DisableAutostart(appName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Autostart disabled")
			return nil
		},
	})

	return autostartCmd
}
