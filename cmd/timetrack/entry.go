package main

import (
	"fmt"
	"strings"

	"timetrack/internal/calendar"
	"timetrack/internal/service"
	"timetrack/pkg/worktime"

	"github.com/spf13/cobra"
)

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record, show or remove a single day",
	}
	cmd.AddCommand(entrySetCmd(), entryGetCmd(), entryDeleteCmd())
	return cmd
}

func entrySetCmd() *cobra.Command {
	var (
		intervals []string
		absence   string
	)

	cmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Save worked intervals or an absence code for a day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			parsed := make([]worktime.TimeInterval, 0, len(intervals))
			for _, raw := range intervals {
				interval, err := parseInterval(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, interval)
			}

			record, hours, err := a.days.SaveEntry(employeeID, args[0], parsed, absence)
			if err != nil {
				return err
			}

			if record.HasAbsence() {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s marked as %s\n", record.Date, record.Absence())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s saved: %.2fh worked\n", record.Date, hours)
			return nil
		}),
	}

	cmd.Flags().StringArrayVarP(&intervals, "interval", "i", nil, "Worked interval HH:MM-HH:MM (repeatable)")
	cmd.Flags().StringVarP(&absence, "absence", "a", "", "Absence code, replaces any interval")
	return cmd
}

func entryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get DATE",
		Short: "Show the stored record of a day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			record, err := a.days.GetEntry(employeeID, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if record == nil {
				fmt.Fprintf(out, "%s has no record\n", args[0])
				return nil
			}
			if record.HasAbsence() {
				fmt.Fprintf(out, "%s  %s\n", record.Date, record.Absence())
			} else {
				fmt.Fprintf(out, "%s  %.2fh\n", record.Date, record.WorkedHours())
				for _, interval := range record.Intervals {
					fmt.Fprintf(out, "  %s - %s\n", interval.Entry, interval.Exit)
				}
			}
			if record.Observation != "" {
				fmt.Fprintf(out, "  %s\n", record.Observation)
			}
			return nil
		}),
	}
}

func entryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE",
		Short: "Remove the stored record of a day",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.days.DeleteEntry(employeeID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  %s removed\n", args[0])
			return nil
		}),
	}
}

func dayTypeCmd() *cobra.Command {
	var dayType string

	cmd := &cobra.Command{
		Use:   "day-type DATE...",
		Short: "Set the type of one or more days",
		Long: fmt.Sprintf("Set the type of one or more days: %q reverts to the calendar, %q forces a work day, "+
			"any registered absence code marks an absence.", service.DayTypeDefault, calendar.WorkDay),
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.days.SetDayType(employeeID, args, dayType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d day(s) set to %s\n", len(args), dayType)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&dayType, "type", "t", "", "DEFAULT, \"Work Day\" or an absence code")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// parseInterval reads "09:00-13:00".
func parseInterval(s string) (worktime.TimeInterval, error) {
	entry, exit, ok := strings.Cut(s, "-")
	if !ok {
		return worktime.TimeInterval{}, fmt.Errorf("invalid interval %q (use HH:MM-HH:MM)", s)
	}
	return worktime.TimeInterval{
		Entry: strings.TrimSpace(entry),
		Exit:  strings.TrimSpace(exit),
	}, nil
}
