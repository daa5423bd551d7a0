package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"neo-trader/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Instruments table for synced scrip master rows
	CREATE TABLE IF NOT EXISTS instruments (
		token TEXT NOT NULL,
		exchange_segment TEXT NOT NULL,
		trading_symbol TEXT NOT NULL,
		name TEXT,
		instrument_type TEXT,
		option_type TEXT,
		isin TEXT,
		lot_size INTEGER NOT NULL DEFAULT 1,
		tick_size REAL NOT NULL DEFAULT 0,
		strike_price REAL NOT NULL DEFAULT 0,
		expiry_epoch INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (exchange_segment, token)
	);

	CREATE INDEX IF NOT EXISTS idx_instruments_symbol
		ON instruments(trading_symbol);
	CREATE INDEX IF NOT EXISTS idx_instruments_name
		ON instruments(name);

	-- Sync bookkeeping per exchange segment
	CREATE TABLE IF NOT EXISTS sync_times (
		segment TEXT PRIMARY KEY,
		synced_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveInstruments replaces the cached instruments for one segment.
func (s *SQLiteStore) SaveInstruments(ctx context.Context, segment string, instruments []models.Instrument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM instruments WHERE exchange_segment = ?`, segment); err != nil {
		return fmt.Errorf("failed to clear segment: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO instruments
			(token, exchange_segment, trading_symbol, name, instrument_type,
			 option_type, isin, lot_size, tick_size, strike_price, expiry_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range instruments {
		if _, err := stmt.ExecContext(ctx,
			inst.Token, segment, inst.TradingSymbol, inst.Name, inst.InstrumentType,
			inst.OptionType, inst.ISIN, inst.LotSize, inst.TickSize,
			inst.StrikePrice, inst.ExpiryEpoch,
		); err != nil {
			return fmt.Errorf("failed to insert instrument %s: %w", inst.TradingSymbol, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sync_times (segment, synced_at) VALUES (?, ?)
		ON CONFLICT(segment) DO UPDATE SET synced_at = excluded.synced_at`,
		segment, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}

	return tx.Commit()
}

// SearchInstruments returns cached instruments matching the query.
func (s *SQLiteStore) SearchInstruments(ctx context.Context, q InstrumentQuery) ([]models.Instrument, error) {
	var (
		conds []string
		args  []interface{}
	)

	if q.Symbol != "" {
		conds = append(conds, "(trading_symbol LIKE ? COLLATE NOCASE OR name LIKE ? COLLATE NOCASE)")
		pattern := q.Symbol + "%"
		args = append(args, pattern, pattern)
	}
	if q.ExchangeSegment != "" {
		conds = append(conds, "exchange_segment = ?")
		args = append(args, q.ExchangeSegment)
	}
	if q.InstrumentType != "" {
		conds = append(conds, "instrument_type = ?")
		args = append(args, q.InstrumentType)
	}
	if q.OptionType != "" {
		conds = append(conds, "option_type = ?")
		args = append(args, q.OptionType)
	}
	if q.StrikePrice > 0 {
		conds = append(conds, "strike_price = ?")
		args = append(args, q.StrikePrice)
	}

	query := `
		SELECT token, exchange_segment, trading_symbol, name, instrument_type,
		       option_type, isin, lot_size, tick_size, strike_price, expiry_epoch
		FROM instruments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY trading_symbol"

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search instruments: %w", err)
	}
	defer rows.Close()

	var result []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		if err := rows.Scan(
			&inst.Token, &inst.ExchangeSegment, &inst.TradingSymbol, &inst.Name,
			&inst.InstrumentType, &inst.OptionType, &inst.ISIN, &inst.LotSize,
			&inst.TickSize, &inst.StrikePrice, &inst.ExpiryEpoch,
		); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		result = append(result, inst)
	}

	return result, rows.Err()
}

// LastSync returns when a segment was last synced; zero time if never.
func (s *SQLiteStore) LastSync(ctx context.Context, segment string) (time.Time, error) {
	var syncedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT synced_at FROM sync_times WHERE segment = ?`, segment,
	).Scan(&syncedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync time: %w", err)
	}
	return syncedAt, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements DataStore
var _ DataStore = (*SQLiteStore)(nil)
