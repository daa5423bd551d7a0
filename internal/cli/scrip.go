package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"neo-trader/internal/scrip"
	"neo-trader/internal/session"
	"neo-trader/internal/store"
	"neo-trader/pkg/utils"
)

// addScripCommands adds scrip master commands.
func addScripCommands(rootCmd *cobra.Command, app *App) {
	scripCmd := &cobra.Command{
		Use:   "scrip",
		Short: "Scrip master cache",
		Long:  "Sync and search the local scrip master instrument cache.",
	}

	scripCmd.AddCommand(newScripSyncCmd(app))
	scripCmd.AddCommand(newScripSearchCmd(app))
	scripCmd.AddCommand(newScripStatusCmd(app))

	rootCmd.AddCommand(scripCmd)
}

func newScripSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <segment>",
		Short: "Download a segment's scrip master into the local cache",
		Long: `Download a segment's scrip master CSV and load it into the local
SQLite cache, replacing the previous snapshot for that segment.

Known segments: ` + fmt.Sprint(session.ExchangeSegments()),
		Example: `  neo scrip sync nse_cm
  neo scrip sync nfo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}
			if app.Store == nil {
				output.Error("Local store unavailable")
				return fmt.Errorf("store not initialized")
			}

			// Canonicalize aliases like nfo so status and search line up
			segment, ok := session.ScripSegment(strings.ToLower(args[0]))
			if !ok {
				segment = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			res, err := app.Client.ScripMaster(ctx, segment)
			if err != nil {
				output.Error("Scrip master lookup failed: %v", err)
				return err
			}
			if res.Failed() {
				output.Error("%s", res.Error)
				return fmt.Errorf("scrip master: %s", res.Error)
			}
			fileURL, _ := res.Data["filePath"].(string)
			if fileURL == "" {
				output.Error("No file path in scrip master response")
				return fmt.Errorf("missing file path")
			}

			output.Info("Downloading %s", fileURL)
			data, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]byte, error) {
				return app.Client.ScripFile(ctx, fileURL)
			})
			if err != nil {
				output.Error("Download failed: %v", err)
				return err
			}

			instruments, err := scrip.Parse(data)
			if err != nil {
				output.Error("Parse failed: %v", err)
				return err
			}

			if err := app.Store.SaveInstruments(ctx, segment, instruments); err != nil {
				output.Error("Save failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"segment":     segment,
					"instruments": len(instruments),
				})
			}
			output.Success("✓ Synced %d instruments for %s", len(instruments), segment)
			return nil
		},
	}
}

func newScripSearchCmd(app *App) *cobra.Command {
	var q store.InstrumentQuery
	var strike string

	cmd := &cobra.Command{
		Use:   "search <symbol-prefix>",
		Short: "Search the local instrument cache",
		Example: `  neo scrip search RELIANCE
  neo scrip search NIFTY --segment nse_fo --option CE --strike 24000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Local store unavailable")
				return fmt.Errorf("store not initialized")
			}

			q.Symbol = args[0]
			if strike != "" {
				v, err := strconv.ParseFloat(strike, 64)
				if err != nil {
					return fmt.Errorf("invalid strike %q", strike)
				}
				q.StrikePrice = v
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			instruments, err := app.Store.SearchInstruments(ctx, q)
			if err != nil {
				output.Error("Search failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(instruments)
			}
			if len(instruments) == 0 {
				output.Dim("No matches (run 'neo scrip sync <segment>' first)")
				return nil
			}

			table := NewTable(output, "TOKEN", "SYMBOL", "SEGMENT", "TYPE", "LOT", "STRIKE", "EXPIRY")
			for _, inst := range instruments {
				strikeCell := "-"
				if inst.StrikePrice > 0 {
					strikeCell = fmt.Sprintf("%.2f", inst.StrikePrice)
				}
				table.AddRow(
					inst.Token,
					inst.TradingSymbol,
					inst.ExchangeSegment,
					inst.InstrumentType,
					strconv.Itoa(inst.LotSize),
					strikeCell,
					FormatExpiry(inst.ExpiryEpoch),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&q.ExchangeSegment, "segment", "", "filter by exchange segment")
	cmd.Flags().StringVar(&q.InstrumentType, "type", "", "filter by instrument type")
	cmd.Flags().StringVar(&q.OptionType, "option", "", "filter by option type: CE, PE")
	cmd.Flags().StringVar(&strike, "strike", "", "filter by strike price")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "maximum results")
	return cmd
}

func newScripStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync times for each segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Local store unavailable")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			type segSync struct {
				Segment  string `json:"segment"`
				SyncedAt string `json:"synced_at,omitempty"`
			}
			var statuses []segSync
			for _, segment := range session.ExchangeSegments() {
				syncedAt, err := app.Store.LastSync(ctx, segment)
				if err != nil {
					return err
				}
				s := segSync{Segment: segment}
				if !syncedAt.IsZero() {
					s.SyncedAt = syncedAt.Local().Format(time.RFC3339)
				}
				statuses = append(statuses, s)
			}

			if output.IsJSON() {
				return output.JSON(statuses)
			}

			table := NewTable(output, "SEGMENT", "LAST SYNC")
			for _, s := range statuses {
				synced := s.SyncedAt
				if synced == "" {
					synced = output.DimText("never")
				}
				table.AddRow(s.Segment, synced)
			}
			table.Render()
			return nil
		},
	}
}
