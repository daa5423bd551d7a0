package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neo-trader/internal/models"
)

// addQuoteCommands adds market data commands.
func addQuoteCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
}

func newQuoteCmd(app *App) *cobra.Command {
	var quoteType string

	cmd := &cobra.Command{
		Use:   "quote <segment|token> [segment|token...]",
		Short: "Fetch quotes for instruments",
		Long: `Fetch quotes for one or more instruments.

Instruments are given as segment|token pairs, e.g. nse_cm|11536 for
TCS on the NSE cash market. Tokens come from the scrip master
('neo scrip search').`,
		Example: `  neo quote "nse_cm|11536"
  neo quote --type ltp "nse_cm|11536" "nse_fo|53216"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			instruments := make([]models.QuoteInstrument, 0, len(args))
			for _, arg := range args {
				parts := strings.SplitN(arg, "|", 2)
				if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
					return fmt.Errorf("invalid instrument %q, expected segment|token", arg)
				}
				instruments = append(instruments, models.QuoteInstrument{
					ExchangeSegment: parts[0],
					InstrumentToken: parts[1],
				})
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.Quotes(ctx, instruments, models.QuoteType(quoteType))
			if err != nil {
				output.Error("Quotes failed: %v", err)
				return err
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&quoteType, "type", "all", "quote type: all, ltp, ohlc, depth, circuit_limits, scrip_details")
	return cmd
}
