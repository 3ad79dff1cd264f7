package etfperformance

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

// SymbolSnapshot is the per-ticker position summary persisted after a run:
// aggregated quantity and the purchase-versus-current valuation, in base
// currency.
type SymbolSnapshot struct {
	Symbol             string
	Quantity           float64
	TotalPurchaseValue float64
	TotalCurrentValue  float64
	GainLoss           float64
	PercentGain        float64
}

// BuildSnapshots groups the enriched table by symbol and computes gain/loss
// against the purchase price passthrough column. Rows without a parseable
// purchase price or without metrics contribute quantity only.
func BuildSnapshots(pf *Portfolio, enriched map[int]*EnrichedHolding) []SymbolSnapshot {
	bySymbol := make(map[string]*SymbolSnapshot)
	var order []string
	for _, h := range pf.Holdings() {
		snap := bySymbol[h.Symbol]
		if snap == nil {
			snap = &SymbolSnapshot{Symbol: h.Symbol}
			bySymbol[h.Symbol] = snap
			order = append(order, h.Symbol)
		}
		quantity := h.Quantity.AsFloat()
		snap.Quantity += quantity

		e := enriched[h.Row]
		if e == nil {
			continue
		}
		snap.TotalCurrentValue += quantity * e.LastClose
		if cell, ok := h.Field("Purchase Price"); ok {
			if price, err := strconv.ParseFloat(cell, 64); err == nil {
				snap.TotalPurchaseValue += quantity * price
			}
		}
	}

	snaps := make([]SymbolSnapshot, 0, len(order))
	for _, symbol := range order {
		snap := bySymbol[symbol]
		snap.GainLoss = snap.TotalCurrentValue - snap.TotalPurchaseValue
		if snap.TotalPurchaseValue != 0 {
			snap.PercentGain = snap.GainLoss / snap.TotalPurchaseValue * 100
		}
		snaps = append(snaps, *snap)
	}
	return snaps
}

// SnapshotStore persists per-run symbol snapshots to a local SQLite file.
type SnapshotStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSnapshotStore opens (creating if needed) the snapshot database.
func OpenSnapshotStore(path string, log zerolog.Logger) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot database %q: %w", path, err)
	}
	schema := `
		CREATE TABLE IF NOT EXISTS portfolio_snapshot (
			run_at               TEXT NOT NULL,
			symbol               TEXT NOT NULL,
			quantity             REAL NOT NULL,
			total_purchase_value REAL NOT NULL,
			total_current_value  REAL NOT NULL,
			gain_loss            REAL NOT NULL,
			percent_gain         REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshot_run ON portfolio_snapshot(run_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create snapshot schema: %w", err)
	}
	return &SnapshotStore{db: db, log: log.With().Str("component", "snapshot_store").Logger()}, nil
}

func (s *SnapshotStore) Close() error { return s.db.Close() }

// Save appends one run's snapshots under a single timestamp.
func (s *SnapshotStore) Save(runAt time.Time, snaps []SymbolSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO portfolio_snapshot
			(run_at, symbol, quantity, total_purchase_value, total_current_value, gain_loss, percent_gain)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	at := runAt.UTC().Format(time.RFC3339)
	for _, snap := range snaps {
		if _, err := stmt.Exec(at, snap.Symbol, snap.Quantity,
			snap.TotalPurchaseValue, snap.TotalCurrentValue, snap.GainLoss, snap.PercentGain); err != nil {
			return fmt.Errorf("cannot save snapshot for %q: %w", snap.Symbol, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Int("symbols", len(snaps)).Str("run_at", at).Msg("snapshot saved")
	return nil
}

// Latest returns the snapshots of the most recent run, or nil when the store
// is empty.
func (s *SnapshotStore) Latest() ([]SymbolSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT symbol, quantity, total_purchase_value, total_current_value, gain_loss, percent_gain
		FROM portfolio_snapshot
		WHERE run_at = (SELECT MAX(run_at) FROM portfolio_snapshot)
		ORDER BY symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []SymbolSnapshot
	for rows.Next() {
		var snap SymbolSnapshot
		if err := rows.Scan(&snap.Symbol, &snap.Quantity, &snap.TotalPurchaseValue,
			&snap.TotalCurrentValue, &snap.GainLoss, &snap.PercentGain); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
