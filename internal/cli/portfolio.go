package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"neo-trader/internal/models"
)

// addPortfolioCommands adds portfolio and margin commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newHoldingsCmd(app))
	rootCmd.AddCommand(newLimitsCmd(app))
	rootCmd.AddCommand(newMarginCmd(app))
}

func newPositionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show today's positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.Positions(ctx)
			if err != nil {
				output.Error("Positions failed: %v", err)
				return err
			}
			if output.IsJSON() || res.Failed() || !res.OK() {
				return renderResult(output, res)
			}

			rows := dataRows(res.Data)
			if len(rows) == 0 {
				output.Dim("No positions today")
				return nil
			}

			table := NewTable(output, "SYMBOL", "PRODUCT", "BUY QTY", "SELL QTY", "BUY AMT", "SELL AMT")
			for _, row := range rows {
				table.AddRow(
					strField(row, "trdSym"),
					strField(row, "prod"),
					strField(row, "flBuyQty"),
					strField(row, "flSellQty"),
					strField(row, "buyAmt"),
					strField(row, "sellAmt"),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newHoldingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "holdings",
		Short: "Show portfolio holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.Holdings(ctx)
			if err != nil {
				output.Error("Holdings failed: %v", err)
				return err
			}
			if output.IsJSON() || res.Failed() || !res.OK() {
				return renderResult(output, res)
			}

			rows := dataRows(res.Data)
			if len(rows) == 0 {
				output.Dim("No holdings")
				return nil
			}

			table := NewTable(output, "SYMBOL", "QTY", "AVG PRICE", "VALUE")
			for _, row := range rows {
				qty, _ := strconv.ParseFloat(strField(row, "quantity"), 64)
				avg, _ := strconv.ParseFloat(strField(row, "averagePrice"), 64)
				table.AddRow(
					strField(row, "displaySymbol"),
					strField(row, "quantity"),
					strField(row, "averagePrice"),
					FormatIndianCurrency(qty*avg),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newLimitsCmd(app *App) *cobra.Command {
	var p models.LimitsParams

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Show available limits and margins",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.Limits(ctx, p)
			if err != nil {
				output.Error("Limits failed: %v", err)
				return err
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&p.Segment, "segment", "ALL", "segment scope: CASH, FO, ALL")
	cmd.Flags().StringVar(&p.Exchange, "exchange", "ALL", "exchange scope: NSE, BSE, ALL")
	cmd.Flags().StringVar(&p.Product, "product", "ALL", "product scope")
	return cmd
}

func newMarginCmd(app *App) *cobra.Command {
	var p models.MarginParams
	var side, product string

	cmd := &cobra.Command{
		Use:   "margin",
		Short: "Show margin required for a prospective order",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			p.TransactionType = models.TransactionType(side)
			p.Product = models.ProductType(product)

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.Margin(ctx, p)
			if err != nil {
				output.Error("Margin failed: %v", err)
				return err
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&p.TradingSymbol, "symbol", "", "trading symbol")
	cmd.Flags().StringVar(&p.ExchangeSegment, "segment", "nse_cm", "exchange segment")
	cmd.Flags().StringVar(&side, "side", "B", "B (buy) or S (sell)")
	cmd.Flags().StringVar(&p.Quantity, "qty", "1", "quantity")
	cmd.Flags().StringVar(&p.Price, "price", "0", "price")
	cmd.Flags().StringVar(&p.TriggerPrice, "trigger", "", "trigger price")
	cmd.Flags().StringVar(&product, "product", "CNC", "product: CNC, MIS, NRML")
	cmd.MarkFlagRequired("symbol")
	return cmd
}
