// Package scrip parses scrip master CSV files into instruments.
package scrip

import (
	"strings"

	"github.com/gocarina/gocsv"

	apierrors "neo-trader/internal/errors"
	"neo-trader/internal/models"
)

// Parse parses one scrip master CSV file into instruments. Rows without a
// token or trading symbol are dropped.
func Parse(data []byte) ([]models.Instrument, error) {
	var rows []*models.Instrument
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, apierrors.Wrap(err, "parsing scrip master csv")
	}

	out := make([]models.Instrument, 0, len(rows))
	for _, row := range rows {
		if row == nil || row.Token == "" || row.TradingSymbol == "" {
			continue
		}
		inst := *row
		inst.TradingSymbol = strings.TrimSpace(inst.TradingSymbol)
		inst.Name = strings.TrimSpace(inst.Name)
		out = append(out, inst)
	}
	return out, nil
}
