package storage

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*tradesRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &tradesRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

func TestNewTradesRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	r := NewTradesRepository(db)
	if r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func sampleNormalized() models.NormalizedTrade {
	stop := decimal.NewFromInt(95)
	return models.NormalizedTrade{
		ExecutedAt: time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
		Symbol:     "NIFTY",
		AssetClass: models.AssetIndex,
		Direction:  models.DirectionLong,
		EntryPrice: decimal.NewFromInt(100),
		ExitPrice:  decimal.NewFromInt(110),
		Quantity:   130,
		Fees:       decimal.NewFromInt(40),
		StopLoss:   &stop,
		GrossPnL:   decimal.NewFromInt(1300),
		NetPnL:     decimal.NewFromInt(1260),
	}
}

func TestInsertTradesBatch_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	// pq.CopyIn cannot be matched precisely under sqlmock; accept any prepared
	// statement and validate the BEGIN/PREPARE/EXEC/COMMIT sequence.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))     // row exec
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0)) // final flush Exec()
	mock.ExpectCommit()

	accountID := uuid.New()
	batchID := uuid.New()

	if err := repo.InsertTradesBatch(accountID, batchID, []models.NormalizedTrade{sampleNormalized()}); err != nil {
		t.Fatalf("InsertTradesBatch: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertTradesBatch_EmptyBatchIsNoOp(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	// No expectations: an empty batch must not touch the database.
	if err := repo.InsertTradesBatch(uuid.New(), uuid.New(), nil); err != nil {
		t.Fatalf("InsertTradesBatch(empty): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertTradesBatch_ErrorOnBegin(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin().WillReturnError(dummyErr{})
	if err := repo.InsertTradesBatch(uuid.New(), uuid.New(), []models.NormalizedTrade{sampleNormalized()}); err == nil {
		t.Fatalf("expected error on begin")
	}
}

func TestInsertTradesBatch_ErrorOnRowExec(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertTradesBatch(uuid.New(), uuid.New(), []models.NormalizedTrade{sampleNormalized()}); err == nil {
		t.Fatalf("expected error on row exec")
	}
}

func TestListTradesByAccount_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	accountID := uuid.New()
	tradeID := uuid.New()
	batchID := uuid.New()
	executedAt := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

	columns := []string{
		"id", "account_id", "executed_at", "symbol", "asset_class", "direction",
		"entry_price", "exit_price", "quantity", "fees", "stop_loss",
		"strategy", "notes", "tags", "gross_pnl", "net_pnl", "import_batch_id",
	}

	rows := sqlmock.NewRows(columns).
		AddRow(
			tradeID.String(), accountID.String(), executedAt, "NIFTY", "INDEX", "LONG",
			"100", "110", int64(130), "40", "95",
			"breakout", "clean setup", []byte(`{momentum,expiry}`), "1300", "1260", batchID.String(),
		).
		AddRow(
			uuid.New().String(), accountID.String(), executedAt.Add(time.Hour), "RELIANCE", "STOCKS", "SHORT",
			"3000", "2950", int64(50), "20", nil,
			nil, nil, nil, "2500", "2480", nil,
		)

	mock.ExpectQuery(`SELECT id, account_id, executed_at, symbol`).
		WithArgs(accountID).
		WillReturnRows(rows)

	got, err := repo.ListTradesByAccount(accountID)
	if err != nil {
		t.Fatalf("ListTradesByAccount: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trades, want 2", len(got))
	}

	first := got[0]
	if first.ID != tradeID || first.Symbol != "NIFTY" || first.Direction != models.DirectionLong {
		t.Errorf("unexpected first trade: %+v", first)
	}
	if first.StopLoss == nil || !first.StopLoss.Equal(decimal.NewFromInt(95)) {
		t.Errorf("StopLoss = %v, want 95", first.StopLoss)
	}
	if first.Strategy != "breakout" || len(first.Tags) != 2 {
		t.Errorf("strategy/tags not mapped: %+v", first)
	}
	if first.ImportBatchID == nil || *first.ImportBatchID != batchID {
		t.Errorf("ImportBatchID = %v, want %s", first.ImportBatchID, batchID)
	}

	second := got[1]
	if second.StopLoss != nil {
		t.Errorf("NULL stop_loss must map to nil, got %v", second.StopLoss)
	}
	if second.Strategy != "" || second.ImportBatchID != nil {
		t.Errorf("NULL strategy/batch must map to zero values: %+v", second)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListTradesByAccount_QueryError(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	accountID := uuid.New()
	mock.ExpectQuery(`SELECT id, account_id`).WithArgs(accountID).WillReturnError(dummyErr{})

	if _, err := repo.ListTradesByAccount(accountID); err == nil {
		t.Fatalf("expected query error")
	}
}

func TestSyncLog_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	batchID := uuid.New()

	// HasSyncForDate
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM sync_log WHERE broker = $1 AND sync_date = $2)")).
		WithArgs("zerodha", day).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.HasSyncForDate("zerodha", day)
	if err != nil || !ok {
		t.Fatalf("HasSyncForDate: ok=%v err=%v", ok, err)
	}

	// SyncBatchForDate with a recorded batch
	mock.ExpectQuery(regexp.QuoteMeta("SELECT batch_id FROM sync_log WHERE broker = $1 AND sync_date = $2")).
		WithArgs("zerodha", day).
		WillReturnRows(sqlmock.NewRows([]string{"batch_id"}).AddRow(batchID.String()))
	got, err := repo.SyncBatchForDate("zerodha", day)
	if err != nil || got != batchID {
		t.Fatalf("SyncBatchForDate: got=%s err=%v, want %s", got, err, batchID)
	}

	// SyncBatchForDate with no row is not an error
	mock.ExpectQuery(regexp.QuoteMeta("SELECT batch_id FROM sync_log WHERE broker = $1 AND sync_date = $2")).
		WithArgs("dhan", day).
		WillReturnError(sql.ErrNoRows)
	got, err = repo.SyncBatchForDate("dhan", day)
	if err != nil || got != uuid.Nil {
		t.Fatalf("SyncBatchForDate(no row): got=%s err=%v, want uuid.Nil and no error", got, err)
	}

	// UpsertSyncLog
	mock.ExpectExec(`INSERT INTO sync_log`).
		WithArgs("zerodha", day, 12, batchID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.UpsertSyncLog("zerodha", day, 12, batchID); err != nil {
		t.Fatalf("UpsertSyncLog: %v", err)
	}

	// DeleteTradesByBatch
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trades WHERE import_batch_id = $1")).
		WithArgs(batchID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	if err := repo.DeleteTradesByBatch(batchID); err != nil {
		t.Fatalf("DeleteTradesByBatch: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
