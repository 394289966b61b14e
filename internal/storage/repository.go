package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// TradesRepository defines the contract for journal persistence. The compute
// engines never touch the database; they consume the snapshots this layer
// returns.
type TradesRepository interface {
	InsertTradesBatch(accountID uuid.UUID, batchID uuid.UUID, trades []models.NormalizedTrade) error
	ListTradesByAccount(accountID uuid.UUID) ([]models.TradeRecord, error)
	HasSyncForDate(broker string, date time.Time) (bool, error)
	SyncBatchForDate(broker string, date time.Time) (uuid.UUID, error)
	UpsertSyncLog(broker string, date time.Time, tradeCount int, batchID uuid.UUID) error
	DeleteTradesByBatch(batchID uuid.UUID) error
}

type tradesRepository struct {
	db *sql.DB
}

func NewTradesRepository(db *sql.DB) TradesRepository {
	return &tradesRepository{db: db}
}

// InsertTradesBatch persists a batch of normalized trades in one transaction,
// assigning each record a fresh ID and stamping the owning account and import
// batch. Uses COPY for bulk throughput.
func (r *tradesRepository) InsertTradesBatch(accountID uuid.UUID, batchID uuid.UUID, trades []models.NormalizedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"trades",
		"id",
		"account_id",
		"executed_at",
		"symbol",
		"asset_class",
		"direction",
		"entry_price",
		"exit_price",
		"quantity",
		"fees",
		"stop_loss",
		"gross_pnl",
		"net_pnl",
		"import_batch_id",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	// map an optional stop loss to NULL
	toNullDecimal := func(d *decimal.Decimal) interface{} {
		if d == nil {
			return nil
		}
		return *d
	}

	for _, rec := range trades {
		if _, err := stmt.Exec(
			uuid.New(),
			accountID,
			rec.ExecutedAt,
			rec.Symbol,
			string(rec.AssetClass),
			string(rec.Direction),
			rec.EntryPrice,
			rec.ExitPrice,
			rec.Quantity,
			rec.Fees,
			toNullDecimal(rec.StopLoss),
			rec.GrossPnL,
			rec.NetPnL,
			batchID,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListTradesByAccount returns the account's full trade snapshot ordered by
// execution time (insertion order breaks ties, preserving the cumulative
// path for the equity curve).
func (r *tradesRepository) ListTradesByAccount(accountID uuid.UUID) ([]models.TradeRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, account_id, executed_at, symbol, asset_class, direction,
		       entry_price, exit_price, quantity, fees, stop_loss,
		       strategy, notes, tags, gross_pnl, net_pnl, import_batch_id
		FROM trades
		WHERE account_id = $1
		ORDER BY executed_at, inserted_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TradeRecord
	for rows.Next() {
		var (
			t        models.TradeRecord
			stop     decimal.NullDecimal
			strategy sql.NullString
			notes    sql.NullString
			tags     pq.StringArray
			batchID  uuid.NullUUID
		)
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.ExecutedAt, &t.Symbol, &t.AssetClass, &t.Direction,
			&t.EntryPrice, &t.ExitPrice, &t.Quantity, &t.Fees, &stop,
			&strategy, &notes, &tags, &t.GrossPnL, &t.NetPnL, &batchID,
		); err != nil {
			return nil, err
		}
		if stop.Valid {
			s := stop.Decimal
			t.StopLoss = &s
		}
		t.Strategy = strategy.String
		t.Notes = notes.String
		t.Tags = tags
		if batchID.Valid {
			b := batchID.UUID
			t.ImportBatchID = &b
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// HasSyncForDate checks whether a broker sync was already recorded for a
// given trading day.
func (r *tradesRepository) HasSyncForDate(broker string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM sync_log WHERE broker = $1 AND sync_date = $2)`, broker, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// SyncBatchForDate returns the import batch recorded for a broker and trading
// day, or uuid.Nil when no sync is on record for that day.
func (r *tradesRepository) SyncBatchForDate(broker string, date time.Time) (uuid.UUID, error) {
	var batchID uuid.UUID
	err := r.db.QueryRow(`SELECT batch_id FROM sync_log WHERE broker = $1 AND sync_date = $2`, broker, date).Scan(&batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return batchID, nil
}

// UpsertSyncLog records (or updates) a sync entry for a broker and day,
// keeping the batch that last imported it so a forced re-run can roll the
// batch back.
func (r *tradesRepository) UpsertSyncLog(broker string, date time.Time, tradeCount int, batchID uuid.UUID) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_log (broker, sync_date, trade_count, batch_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (broker, sync_date)
		DO UPDATE SET trade_count = EXCLUDED.trade_count,
					  batch_id = EXCLUDED.batch_id,
					  synced_at = NOW()
	`, broker, date, tradeCount, batchID)
	return err
}

// DeleteTradesByBatch removes every trade imported under one batch, the
// rollback path when a sync is re-run with force.
func (r *tradesRepository) DeleteTradesByBatch(batchID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM trades WHERE import_batch_id = $1`, batchID)
	return err
}
