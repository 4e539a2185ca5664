package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

func newAuditRepo(t *testing.T) (*AuditRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuditRepo(db), mock
}

func TestAuditRepo_EnsureSchema(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS booking_audit").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Insert(t *testing.T) {
	repo, mock := newAuditRepo(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	entry := model.AuditEntry{EventID: "e-1", Action: "created", LocationNumber: "L1", Payload: `{"x":1}`, OccurredAt: at}

	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO booking_audit")).
		WithArgs("e-1", "created", "L1", `{"x":1}`, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_InsertError(t *testing.T) {
	repo, mock := newAuditRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT IGNORE INTO booking_audit").WillReturnError(boom)

	err := repo.Insert(context.Background(), model.AuditEntry{EventID: "e-2"})
	assert.ErrorIs(t, err, boom)
}

func TestAuditRepo_ListByLocation(t *testing.T) {
	repo, mock := newAuditRepo(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "event_id", "action", "location_number", "payload", "occurred_at"}).
		AddRow(1, "e-1", "created", "L1", `{}`, at).
		AddRow(2, "e-2", "updated", "L1", `{}`, at.Add(time.Minute))
	mock.ExpectQuery("SELECT id, event_id, action, location_number, payload, occurred_at").
		WithArgs("L1").
		WillReturnRows(rows)

	got, err := repo.ListByLocation(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[1].ID)
	assert.Equal(t, "updated", got[1].Action)
	assert.Equal(t, at.Add(time.Minute), got[1].OccurredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
