package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeskhq/flightdesk-api/internal/models"
)

func newRosterRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func rosterRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "instructor_id", "day_of_week", "start_time", "end_time",
		"effective_from", "effective_until", "is_active", "voided_at", "notes", "created_at", "updated_at",
	})
}

func TestRosterRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO roster_rules").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rule := &models.RosterRule{
		TenantID:      "tenant-1",
		InstructorID:  "inst-1",
		DayOfWeek:     2,
		StartTime:     "09:00:00",
		EndTime:       "11:00:00",
		EffectiveFrom: "2026-03-01",
	}
	require.NoError(t, repo.Insert(context.Background(), rule))
	assert.NotEmpty(t, rule.ID)
	assert.True(t, rule.IsActive)
	assert.Nil(t, rule.VoidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryInsertMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO roster_rules").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(context.Background(), &models.RosterRule{TenantID: "tenant-1"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryInsertOtherErrorsPassThrough(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO roster_rules").
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), &models.RosterRule{TenantID: "tenant-1"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUniqueViolation))
}

func TestRosterRepositoryVoidPreservesFirstVoidedAt(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("SET is_active = FALSE, voided_at = COALESCE(voided_at, $3), updated_at = $3")).
		WithArgs("tenant-1", "rule-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Void(context.Background(), "tenant-1", "rule-1", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryVoidMissingRow(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("UPDATE roster_rules").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Void(context.Background(), "tenant-1", "missing", time.Now().UTC())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRosterRepositoryFindByNaturalKeyAbsent(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("SELECT .+ FROM roster_rules").
		WithArgs("tenant-1", "inst-1", 2, "09:00:00", "11:00:00").
		WillReturnError(sql.ErrNoRows)

	rule, err := repo.FindByNaturalKey(context.Background(), "tenant-1", "inst-1", 2, "09:00:00", "11:00:00")
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestRosterRepositoryFindByNaturalKeyIncludesVoided(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	voidedAt := time.Now().UTC()
	rows := rosterRows().AddRow(
		"rule-1", "tenant-1", "inst-1", 2, "09:00:00", "11:00:00",
		"2026-02-10", "2026-02-10", false, voidedAt, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT .+ FROM roster_rules").
		WithArgs("tenant-1", "inst-1", 2, "09:00:00", "11:00:00").
		WillReturnRows(rows)

	rule, err := repo.FindByNaturalKey(context.Background(), "tenant-1", "inst-1", 2, "09:00:00", "11:00:00")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.False(t, rule.IsActive)
	assert.True(t, rule.IsOneOff())
}

func TestRosterRepositoryQueryConflictHalfOpenArgs(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("start_time < $5 AND end_time > $4")).
		WithArgs("tenant-1", "inst-1", 2, "09:00:00", "11:00:00", nil, "2026-03-01").
		WillReturnError(sql.ErrNoRows)

	rule, err := repo.QueryConflict(context.Background(), ConflictQuery{
		TenantID:      "tenant-1",
		InstructorID:  "inst-1",
		DayOfWeek:     2,
		StartTime:     "09:00:00",
		EndTime:       "11:00:00",
		EffectiveFrom: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Nil(t, rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryQueryConflictExcludesRule(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND id <> $8")).
		WithArgs("tenant-1", "inst-1", 2, "09:00:00", "11:00:00", nil, "2026-03-01", "rule-1").
		WillReturnError(sql.ErrNoRows)

	rule, err := repo.QueryConflict(context.Background(), ConflictQuery{
		TenantID:      "tenant-1",
		InstructorID:  "inst-1",
		DayOfWeek:     2,
		StartTime:     "09:00:00",
		EndTime:       "11:00:00",
		EffectiveFrom: "2026-03-01",
		ExcludeID:     "rule-1",
	})
	require.NoError(t, err)
	assert.Nil(t, rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryQueryConflictMatch(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	rows := rosterRows().AddRow(
		"rule-9", "tenant-1", "inst-1", 2, "10:00:00", "12:00:00",
		"2026-01-01", nil, true, nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT .+ FROM roster_rules").
		WillReturnRows(rows)

	rule, err := repo.QueryConflict(context.Background(), ConflictQuery{
		TenantID:      "tenant-1",
		InstructorID:  "inst-1",
		DayOfWeek:     2,
		StartTime:     "09:00:00",
		EndTime:       "11:00:00",
		EffectiveFrom: "2026-03-01",
	})
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "rule-9", rule.ID)
}

func TestRosterRepositoryReplaceMissingRow(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("UPDATE roster_rules").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Replace(context.Background(), "tenant-1", "missing", &models.RosterRule{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRosterRepositoryReplaceReactivates(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	rows := rosterRows().AddRow(
		"rule-1", "tenant-1", "inst-1", 2, "09:00:00", "11:00:00",
		"2026-03-01", nil, true, nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("is_active = TRUE")).
		WillReturnRows(rows)

	updated, err := repo.Replace(context.Background(), "tenant-1", "rule-1", &models.RosterRule{
		InstructorID:  "inst-1",
		DayOfWeek:     2,
		StartTime:     "09:00:00",
		EndTime:       "11:00:00",
		EffectiveFrom: "2026-03-01",
	})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Nil(t, updated.VoidedAt)
}

func TestRosterRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRosterRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	day := 2
	rows := rosterRows().AddRow(
		"rule-1", "tenant-1", "inst-1", 2, "09:00:00", "11:00:00",
		"2026-03-01", nil, true, nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("is_active = TRUE AND voided_at IS NULL AND instructor_id = $2 AND day_of_week = $3")).
		WithArgs("tenant-1", "inst-1", 2).
		WillReturnRows(rows)

	rules, err := repo.List(context.Background(), "tenant-1", models.RosterRuleFilter{
		InstructorID: "inst-1",
		DayOfWeek:    &day,
	})
	require.NoError(t, err)
	assert.Len(t, rules, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
