package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"timetrack/internal/calendar"
	"timetrack/internal/service"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compare worked hours with required hours",
	}
	cmd.AddCommand(summaryDayCmd(), summaryWeekCmd(), summaryMonthCmd())
	return cmd
}

func summaryDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [DATE]",
		Short: "Summary of one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(firstArg(args))
			if err != nil {
				return err
			}
			day, err := a.summaries.Day(employeeID, date)
			if err != nil {
				return err
			}
			printDays(cmd.OutOrStdout(), []calendar.DaySummary{day})
			return nil
		}),
	}
}

func summaryWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [DATE]",
		Short: "Summary of the Monday to Sunday week containing DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(firstArg(args))
			if err != nil {
				return err
			}
			week, err := a.summaries.Week(employeeID, date)
			if err != nil {
				return err
			}
			printPeriod(cmd.OutOrStdout(), "Week", week)
			return nil
		}),
	}
}

func summaryMonthCmd() *cobra.Command {
	var perDay bool

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Summary of a calendar month (default current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			month := time.Now()
			if len(args) == 1 {
				parsed, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
				}
				month = parsed
			}

			out := cmd.OutOrStdout()
			if perDay {
				days, err := a.summaries.MonthDays(employeeID, month.Year(), month.Month())
				if err != nil {
					return err
				}
				printDays(out, days)
				fmt.Fprintln(out)
			}

			summary, err := a.summaries.Month(employeeID, month.Year(), month.Month())
			if err != nil {
				return err
			}
			printPeriod(out, "Month", summary)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&perDay, "days", false, "Include the per-day breakdown")
	return cmd
}

func printPeriod(out io.Writer, label string, p service.PeriodSummary) {
	fmt.Fprintf(out, "📊 %s %s .. %s\n", label, p.From, p.To)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  Worked:     %6.2fh\n", p.Worked)
	fmt.Fprintf(out, "  Required:   %6.2fh\n", p.Required)
	fmt.Fprintf(out, "  Difference: %s%5.2fh\n", signLabel(p.Difference), math.Abs(p.Difference))
}

func printDays(out io.Writer, days []calendar.DaySummary) {
	fmt.Fprintln(out, "  Date         | Type                 | Worked  | Required | Diff")
	fmt.Fprintln(out, "---------------+----------------------+---------+----------+---------")
	for _, day := range days {
		fmt.Fprintf(out, "  %s   | %-20s | %6.2fh | %7.2fh | %s%5.2fh\n",
			day.Date, day.Type, day.Worked, day.Required, signLabel(day.Difference), math.Abs(day.Difference))
	}
}

func signLabel(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
