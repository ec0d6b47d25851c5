package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"timetrack/internal/importer"
	"timetrack/internal/service"

	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import clock-in/clock-out sheets (.xls, .xlsx, .pdf)",
	}
	cmd.AddCommand(importStageCmd(), importPreviewCmd(), importConfirmCmd(), importCancelCmd())
	return cmd
}

func importStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage FILE",
		Short: "Store a document for a later preview and confirm",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			id, err := a.imports.Stage(args[0], raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📥 Upload staged: %s\n", id)
			return nil
		}),
	}
}

func importPreviewCmd() *cobra.Command {
	var uploadID string

	cmd := &cobra.Command{
		Use:   "preview [FILE]",
		Short: "Parse a document and show what would be imported",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			var (
				result importer.ImportResult
				err    error
			)
			switch {
			case uploadID != "":
				result, err = a.imports.PreviewUpload(uploadID)
			case len(args) == 1:
				var raw []byte
				if raw, err = os.ReadFile(args[0]); err == nil {
					result, err = a.imports.Preview(args[0], raw)
				}
			default:
				return errors.New("either FILE or --upload is required")
			}
			if err != nil {
				return err
			}

			printImportResult(cmd.OutOrStdout(), result)
			return nil
		}),
	}

	cmd.Flags().StringVar(&uploadID, "upload", "", "Staged upload id")
	return cmd
}

func importConfirmCmd() *cobra.Command {
	var uploadID string

	cmd := &cobra.Command{
		Use:   "confirm [FILE]",
		Short: "Store the valid records of a document for the employee",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			var (
				confirm *service.ConfirmResult
				err     error
			)
			switch {
			case uploadID != "":
				confirm, err = a.imports.ConfirmUpload(cmd.Context(), employeeID, uploadID)
			case len(args) == 1:
				var (
					raw    []byte
					result importer.ImportResult
				)
				if raw, err = os.ReadFile(args[0]); err != nil {
					return err
				}
				if result, err = a.imports.Preview(args[0], raw); err != nil {
					return err
				}
				confirm, err = a.imports.Confirm(cmd.Context(), employeeID, result)
			default:
				return errors.New("either FILE or --upload is required")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Batch %s: %d imported, %d skipped\n", confirm.BatchID, confirm.Imported, confirm.Skipped)
			for _, problem := range confirm.Problems {
				fmt.Fprintf(out, "   • %s\n", problem)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&uploadID, "upload", "", "Staged upload id")
	return cmd
}

func importCancelCmd() *cobra.Command {
	var uploadID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Discard a staged upload without importing it",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.imports.Cancel(uploadID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  Upload %s discarded\n", uploadID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&uploadID, "upload", "", "Staged upload id")
	_ = cmd.MarkFlagRequired("upload")
	return cmd
}

func printImportResult(out io.Writer, result importer.ImportResult) {
	fmt.Fprintln(out, "  Date         | Entry | Exit  | Observation")
	fmt.Fprintln(out, "---------------+-------+-------+----------------")
	for _, rec := range result.Records {
		status := ""
		if !rec.IsValid {
			status = "  ❌ " + rec.ErrorMessage
		}
		fmt.Fprintf(out, "  %-12s | %-5s | %-5s | %s%s\n", rec.Date, rec.EntryTime, rec.ExitTime, rec.Observation, status)
	}

	fmt.Fprintf(out, "\n  Total: %d, valid: %d\n", result.TotalRecords, result.ValidRecords)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  ⚠️  %s\n", msg)
	}
}
