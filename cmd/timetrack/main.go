package main

import (
	"fmt"
	"os"
	"time"

	"timetrack/internal/calendar"
	"timetrack/internal/config"
	"timetrack/internal/holidays"
	"timetrack/internal/importer"
	"timetrack/internal/logging"
	"timetrack/internal/repository"
	"timetrack/internal/service"
	"timetrack/pkg/worktime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile    string
	employeeID uint
)

// app holds the wired services of one command invocation.
type app struct {
	cfg *config.Config
	db  *gorm.DB

	imports      *service.ImportService
	days         *service.DayService
	summaries    *service.SummaryService
	holidays     *service.HolidayService
	absenceCodes *service.AbsenceCodeService
	seed         *service.SeedService

	// providerErr explains why holidays cannot be refreshed.
	providerErr error
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "timetrack",
		Short:         "Employee timesheet tracker",
		Long:          "Import clock-in/clock-out sheets, record absences and compare worked hours against the working calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file")
	rootCmd.PersistentFlags().UintVarP(&employeeID, "employee", "e", 0, "Employee id (default DEFAULT_EMPLOYEE_ID)")

	rootCmd.AddCommand(
		initCmd(),
		holidaysCmd(),
		importCmd(),
		entryCmd(),
		dayTypeCmd(),
		summaryCmd(),
		absenceCodesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp loads the configuration, opens the database and wires repositories
// into services. The caller closes it.
func newApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if employeeID == 0 {
		employeeID = cfg.DefaultEmployeeID
	}

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		_ = repository.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	dayRepo, err := repository.NewGormDayRecordRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create day record repository: %w", err)
	}
	holidayRepo, err := repository.NewGormHolidayRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create holiday repository: %w", err)
	}
	absenceRepo, err := repository.NewGormAbsenceCodeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create absence code repository: %w", err)
	}
	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee repository: %w", err)
	}

	provider, providerErr := holidays.NewProvider(cfg.HolidaySettings())
	if providerErr != nil {
		logrus.WithError(providerErr).Debug("Holiday provider is not available")
	}

	a := &app{
		cfg: cfg,
		db:  db,
		imports: service.NewImportService(db, dayRepo, importer.Options{
			StrictPDFTimes: cfg.ImportStrictPDFTimes,
		}, cfg.UploadDir),
		days:         service.NewDayService(db, dayRepo, absenceRepo),
		summaries:    service.NewSummaryService(dayRepo, holidayRepo, calendar.New(cfg.WorkHoursPerDay)),
		absenceCodes: service.NewAbsenceCodeService(absenceRepo),
		holidays:     service.NewHolidayService(provider, holidayRepo),
		seed:         service.NewSeedService(employeeRepo, absenceRepo),
		providerErr:  providerErr,
	}
	return a, nil
}

func (a *app) Close() {
	if err := repository.Close(a.db); err != nil {
		logrus.WithError(err).Warn("Error closing database")
	}
}

// withApp wraps a command body with application setup and teardown.
func withApp(run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(a, cmd, args)
	}
}

func initCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create tables, seed defaults and optionally load holidays",
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.seed.Seed(employeeID); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Database ready at %s (employee %d)\n", a.cfg.DatabaseURL, employeeID)

			if !refresh {
				return nil
			}
			if a.providerErr != nil {
				return a.providerErr
			}
			stored, err := a.holidays.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("holiday refresh failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📅 %d holidays stored\n", stored)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh-holidays", false, "Fetch holidays for the current and next year")
	return cmd
}

// parseDateArg accepts YYYY-MM-DD or "today".
func parseDateArg(s string) (time.Time, error) {
	if s == "" || s == "today" {
		return worktime.Date(time.Now()), nil
	}
	return worktime.ParseDate(s)
}
