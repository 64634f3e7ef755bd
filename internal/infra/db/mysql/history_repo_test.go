package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephheron/devlens/internal/domain/history"
)

func TestHistorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO analysis_history").
		WithArgs("rec-1", "s1", "it crashes", 2, `{"confidence":0.82}`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewHistoryRepository(db)
	err = repo.Save(context.Background(), &history.Record{
		ID:          "rec-1",
		SessionID:   "s1",
		Prompt:      "it crashes",
		Screenshots: 2,
		ResultJSON:  `{"confidence":0.82}`,
		CreatedAt:   created,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistorySaveDefaultsEmptyFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO analysis_history").
		WithArgs("rec-2", "-", "", 1, "{}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewHistoryRepository(db)
	err = repo.Save(context.Background(), &history.Record{
		ID:          "rec-2",
		Screenshots: 1,
		ResultJSON:  "  ",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryPaginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "session_id", "prompt", "screenshots", "result_json", "created_at"}).
		AddRow("rec-2", "s1", "second", 1, "{}", created).
		AddRow("rec-1", "s1", "first", 2, "{}", created.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, session_id, prompt, screenshots, result_json, created_at").
		WithArgs("s1", 20, 20).
		WillReturnRows(rows)

	repo := NewHistoryRepository(db)
	got, err := repo.Paginate(context.Background(), "s1", 2, 20)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, history.RecordID("rec-2"), got[0].ID)
	assert.Equal(t, "second", got[0].Prompt)
	assert.Equal(t, 2, got[1].Screenshots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryPaginateClampsPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, session_id, prompt, screenshots, result_json, created_at").
		WithArgs("s1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "prompt", "screenshots", "result_json", "created_at"}))

	repo := NewHistoryRepository(db)
	got, err := repo.Paginate(context.Background(), "s1", 0, 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

