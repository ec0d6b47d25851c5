package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func absenceCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "absence-codes",
		Aliases: []string{"codes"},
		Short:   "Manage absence codes",
	}
	cmd.AddCommand(absenceListCmd(), absenceAddCmd(), absenceRenameCmd(), absenceDeleteCmd())
	return cmd
}

func absenceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every absence code",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			codes, err := a.absenceCodes.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range codes {
				fmt.Fprintf(out, "  %3d  %-24s %s\n", c.ID, c.Code, c.Description)
			}
			return nil
		}),
	}
}

func absenceAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add CODE",
		Short: "Register a new absence code",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			created, err := a.absenceCodes.Create(args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s added (id %d)\n", created.Code, created.ID)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	return cmd
}

func absenceRenameCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "rename CODE|ID NEW_CODE",
		Short: "Rename an absence code, days using it follow",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			current, err := a.absenceCodes.Resolve(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}

			updated, err := a.absenceCodes.Rename(current.ID, args[1], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s renamed to %s\n", current.Code, updated.Code)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func absenceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete CODE|ID",
		Short: "Delete an absence code that no day uses",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			code, err := a.absenceCodes.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.absenceCodes.Delete(code.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  %s deleted\n", code.Code)
			return nil
		}),
	}
}
