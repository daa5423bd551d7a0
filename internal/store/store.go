// Package store provides data persistence implementations.
package store

import (
	"context"
	"time"

	"neo-trader/internal/models"
)

// InstrumentQuery filters a local scrip search.
type InstrumentQuery struct {
	Symbol          string // trading symbol or name prefix, case-insensitive
	ExchangeSegment string
	InstrumentType  string
	OptionType      string
	StrikePrice     float64
	Limit           int
}

// DataStore persists synced scrip master instruments for local search.
type DataStore interface {
	// SaveInstruments replaces the cached instruments for one segment.
	SaveInstruments(ctx context.Context, segment string, instruments []models.Instrument) error

	// SearchInstruments returns cached instruments matching the query.
	SearchInstruments(ctx context.Context, q InstrumentQuery) ([]models.Instrument, error)

	// LastSync returns when a segment was last synced; zero time if never.
	LastSync(ctx context.Context, segment string) (time.Time, error)

	// Close releases the underlying resources.
	Close() error
}
