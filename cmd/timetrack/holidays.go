package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the public holiday table",
	}
	cmd.AddCommand(holidaysRefreshCmd(), holidaysListCmd())
	return cmd
}

func holidaysRefreshCmd() *cobra.Command {
	var years []int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch holidays from the configured provider and replace the stored ones",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if a.providerErr != nil {
				return a.providerErr
			}

			stored, err := a.holidays.Refresh(cmd.Context(), years...)
			if err != nil {
				return fmt.Errorf("holiday refresh failed: %w", err)
			}
			if stored == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "⚠️  Provider returned nothing, stored holidays kept")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📅 %d holidays stored\n", stored)
			return nil
		}),
	}

	cmd.Flags().IntSliceVar(&years, "year", nil, "Year to fetch (repeatable, default current and next)")
	return cmd
}

func holidaysListCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored holidays",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			list, err := a.holidays.List(year)
			if err != nil {
				return err
			}

			stored, err := a.holidays.Count()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, h := range list {
				fmt.Fprintf(out, "  %s  %-18s %s\n", h.Date, h.Type, h.Description)
			}
			fmt.Fprintf(out, "\n  Total: %d (%d stored)\n", len(list), stored)
			if stored == 0 {
				fmt.Fprintln(out, "  ⚠️  No holidays stored, run `timetrack holidays refresh`")
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only this year")
	return cmd
}
