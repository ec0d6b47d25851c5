package repository

import (
	"testing"

	"timetrack/internal/models"
	"timetrack/pkg/worktime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func TestDayRecordUpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	first := &models.DayRecord{
		EmployeeID: 1,
		Date:       "2025-03-10",
		Intervals:  []worktime.TimeInterval{{Entry: "09:00", Exit: "17:00"}},
	}
	require.NoError(t, repo.Upsert(first))

	second := &models.DayRecord{
		EmployeeID:  1,
		Date:        "2025-03-10",
		Intervals:   []worktime.TimeInterval{{Entry: "08:00", Exit: "12:00"}},
		Observation: "half day",
	}
	require.NoError(t, repo.Upsert(second))

	records, err := repo.GetByEmployeeAndRange(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []worktime.TimeInterval{{Entry: "08:00", Exit: "12:00"}}, records[0].Intervals)
	assert.Equal(t, "half day", records[0].Observation)
}

func TestDayRecordAbsenceClearsIntervals(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	record := &models.DayRecord{
		EmployeeID:  1,
		Date:        "2025-03-11",
		Intervals:   []worktime.TimeInterval{{Entry: "09:00", Exit: "17:00"}},
		AbsenceCode: strPtr("LAR"),
	}
	require.NoError(t, repo.Upsert(record))

	stored, err := repo.GetByEmployeeAndDate(1, "2025-03-11")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "LAR", stored.Absence())
	assert.Empty(t, stored.Intervals)
	assert.NotNil(t, stored.Intervals)
}

func TestDayRecordLookupMissing(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	record, err := repo.GetByEmployeeAndDate(1, "2025-01-01")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDayRecordRangeIsPerEmployee(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	for _, r := range []models.DayRecord{
		{EmployeeID: 1, Date: "2025-02-28"},
		{EmployeeID: 1, Date: "2025-03-01"},
		{EmployeeID: 1, Date: "2025-03-31"},
		{EmployeeID: 1, Date: "2025-04-01"},
		{EmployeeID: 2, Date: "2025-03-15"},
	} {
		r := r
		require.NoError(t, repo.Upsert(&r))
	}

	records, err := repo.GetByEmployeeAndRange(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-01", records[0].Date)
	assert.Equal(t, "2025-03-31", records[1].Date)
}

func TestDayRecordDelete(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(&models.DayRecord{EmployeeID: 1, Date: "2025-03-01"}))
	require.NoError(t, repo.Upsert(&models.DayRecord{EmployeeID: 1, Date: "2025-03-02"}))

	deleted, err := repo.DeleteByEmployeeAndDates(1, []string{"2025-03-01", "2025-03-05"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.DeleteByEmployeeAndDates(1, nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestTransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	err = Transaction(db, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Upsert(&models.DayRecord{EmployeeID: 1, Date: "2025-03-01"}); err != nil {
			return err
		}
		return ErrConflict
	})
	require.ErrorIs(t, err, ErrConflict)

	record, err := repo.GetByEmployeeAndDate(1, "2025-03-01")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestHolidayReplaceAll(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormHolidayRepository(db)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceAll([]models.Holiday{
		{Date: "2024-12-25", Year: 2024, Month: 12, Description: "Navidad"},
	}))
	require.NoError(t, repo.ReplaceAll([]models.Holiday{
		{Date: "2025-01-01", Year: 2025, Month: 1, Description: "Año nuevo"},
		{Date: "2025-01-01", Year: 2025, Month: 1, Description: "duplicate"},
		{Date: "2025-05-01", Year: 2025, Month: 5, Description: "Día del trabajador"},
	}))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Año nuevo", all[0].Description)

	inRange, err := repo.GetByRange("2025-04-01", "2025-05-31")
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "2025-05-01", inRange[0].Date)

	byYear, err := repo.GetByYear(2024)
	require.NoError(t, err)
	assert.Empty(t, byYear)
}

func TestAbsenceCodeLifecycle(t *testing.T) {
	db := newTestDB(t)
	codes, err := NewGormAbsenceCodeRepository(db)
	require.NoError(t, err)
	records, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	lar := &models.AbsenceCode{Code: "LAR"}
	require.NoError(t, codes.Create(lar))
	require.NotZero(t, lar.ID)

	err = codes.Create(&models.AbsenceCode{Code: "LAR"})
	assert.True(t, IsConflict(err))

	sick := &models.AbsenceCode{Code: "SICK"}
	require.NoError(t, codes.Create(sick))

	// rename onto an existing code
	err = codes.Update(&models.AbsenceCode{ID: sick.ID, Code: "LAR"})
	assert.ErrorIs(t, err, ErrConflict)

	err = codes.Update(&models.AbsenceCode{ID: 999, Code: "X"})
	assert.True(t, IsNotFound(err))

	require.NoError(t, records.Upsert(&models.DayRecord{EmployeeID: 1, Date: "2025-03-03", AbsenceCode: strPtr("SICK")}))

	require.NoError(t, codes.Update(&models.AbsenceCode{ID: sick.ID, Code: "LICENCIA MÉDICA"}))
	stored, err := records.GetByEmployeeAndDate(1, "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "LICENCIA MÉDICA", stored.Absence())

	err = codes.Delete(sick.ID)
	assert.ErrorIs(t, err, ErrInUse)
	assert.True(t, IsConflict(err))

	err = codes.Delete(12345)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, codes.Delete(lar.ID))

	list, err := codes.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "LICENCIA MÉDICA", list[0].Code)
}

func TestAbsenceCodeRenameMovesDayRecords(t *testing.T) {
	db := newTestDB(t)
	codes, err := NewGormAbsenceCodeRepository(db)
	require.NoError(t, err)
	records, err := NewGormDayRecordRepository(db)
	require.NoError(t, err)

	vacation := &models.AbsenceCode{Code: "VACACIONES"}
	require.NoError(t, codes.Create(vacation))
	require.NoError(t, records.Upsert(&models.DayRecord{EmployeeID: 1, Date: "2025-03-10", AbsenceCode: strPtr("VACACIONES")}))
	require.NoError(t, records.Upsert(&models.DayRecord{EmployeeID: 2, Date: "2025-03-11", AbsenceCode: strPtr("VACACIONES")}))

	require.NoError(t, codes.Update(&models.AbsenceCode{ID: vacation.ID, Code: "VACATION", Description: "annual"}))

	oldCount, err := records.CountByAbsenceCode("VACACIONES")
	require.NoError(t, err)
	assert.Zero(t, oldCount)

	newCount, err := records.CountByAbsenceCode("VACATION")
	require.NoError(t, err)
	assert.Equal(t, int64(2), newCount)

	// the renamed code is still referenced
	assert.ErrorIs(t, codes.Delete(vacation.ID), ErrInUse)

	// description-only updates leave day records alone
	require.NoError(t, codes.Update(&models.AbsenceCode{ID: vacation.ID, Code: "VACATION", Description: "paid"}))
	stored, err := codes.GetByID(vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", stored.Description)
	newCount, err = records.CountByAbsenceCode("VACATION")
	require.NoError(t, err)
	assert.Equal(t, int64(2), newCount)
}

func TestEmployeeEnsureDefault(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)

	employee, created, err := repo.EnsureDefault(1, "Default User")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(1), employee.ID)

	employee, created, err = repo.EnsureDefault(1, "Someone Else")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Default User", employee.Name)
}
