package reconciliation

import (
	"context"
	"strings"
	"testing"

	"recon-manager/core/matching"
	"recon-manager/core/storage/mocks"
	"recon-manager/feature/reconciliation/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTriggerRunPersistsBreaks(t *testing.T) {
	db, dbMock := setupMockDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil, 0)

	// Amounts differ beyond the 0.5% threshold: one MISMATCH break.
	expectLoadContext(dbMock,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
		`{"tradeId":"T1","amount":"150","product":"Payments"}`,
	)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(7, 1))  // run
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(20, 1)) // break item
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(30, 1)) // classification value
	dbMock.ExpectCommit()

	summary, err := svc.TriggerRun(context.Background(), 1, models.TriggerManual, "uid=alice,ou=people,dc=corp", "month end")

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 0, summary.Missing)
	assert.Equal(t, 1, summary.BreakCount)
	assert.Equal(t, uint64(7), summary.Run.ID)
	assert.NotEmpty(t, summary.Run.CorrelationID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTriggerRunArchivesSnapshot(t *testing.T) {
	db, dbMock := setupMockDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "recon", mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "runs/CASH_VS_GL/")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	svc := NewService(db, zap.NewNop(), NewArchiver(client, "recon"), nil, 0)

	expectLoadContext(dbMock,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
	)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(8, 1)) // run, no breaks
	dbMock.ExpectCommit()
	dbMock.ExpectBegin()
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 1)) // snapshot key update
	dbMock.ExpectCommit()

	summary, err := svc.TriggerRun(context.Background(), 1, models.TriggerCLI, "ops", "")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
	assert.Contains(t, summary.Run.SnapshotKey, "runs/CASH_VS_GL/")
	client.AssertExpectations(t)
}

func TestTriggerRunArchivingFailureIsNotFatal(t *testing.T) {
	db, dbMock := setupMockDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "recon", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	svc := NewService(db, zap.NewNop(), NewArchiver(client, "recon"), nil, 0)

	expectLoadContext(dbMock,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
	)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(9, 1))
	dbMock.ExpectCommit()

	summary, err := svc.TriggerRun(context.Background(), 1, models.TriggerManual, "ops", "")

	require.NoError(t, err, "a failed archive never fails the run")
	assert.Empty(t, summary.Run.SnapshotKey)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	db, dbMock := setupMockDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil, 0)

	expectLoadContext(dbMock,
		`{"tradeId":"T1","amount":"100","product":"Payments"}`,
		`{"tradeId":"T1","amount":"150","product":"Payments"}`,
	)

	result, err := svc.Preview(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Mismatched)
	require.Len(t, result.Breaks, 1)
	assert.Equal(t, matching.Mismatch, result.Breaks[0].Type)
	assert.NoError(t, dbMock.ExpectationsWereMet(), "no writes may happen in preview")
}

func TestAnalyticsAggregatesCounts(t *testing.T) {
	db, dbMock := setupMockDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil, 0)

	dbMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id", "definition_id", "correlation_id"}).
		AddRow(7, 1, "abc"))
	dbMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"bucket", "count"}).
		AddRow("OPEN", 3).AddRow("CLOSED", 1))
	dbMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"bucket", "count"}).
		AddRow("MISMATCH", 2).AddRow("SOURCE_MISSING", 2))
	dbMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"bucket", "count"}).
		AddRow("Payments", 4))

	analytics, err := svc.Analytics(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(3), analytics.BreaksByStatus["OPEN"])
	assert.Equal(t, int64(2), analytics.BreaksByType["MISMATCH"])
	assert.Equal(t, int64(4), analytics.BreaksByProduct["Payments"])
}

func TestAnalyticsUnknownRun(t *testing.T) {
	db, dbMock := setupMockDB(t)
	svc := NewService(db, zap.NewNop(), nil, nil, 0)

	dbMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Analytics(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
