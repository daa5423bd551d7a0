package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"neo-trader/internal/models"
)

// addOrderCommands adds order management commands.
func addOrderCommands(rootCmd *cobra.Command, app *App) {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Order management",
		Long:  "Place, modify, cancel, and inspect orders.",
	}

	orderCmd.AddCommand(newOrderPlaceCmd(app))
	orderCmd.AddCommand(newOrderModifyCmd(app))
	orderCmd.AddCommand(newOrderCancelCmd(app))
	orderCmd.AddCommand(newOrderBookCmd(app))
	orderCmd.AddCommand(newOrderHistoryCmd(app))
	orderCmd.AddCommand(newTradeBookCmd(app))

	rootCmd.AddCommand(orderCmd)
}

func orderContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newOrderPlaceCmd(app *App) *cobra.Command {
	var p models.OrderParams
	var side, product, priceType string

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place a new order",
		Example: `  neo order place --symbol RELIANCE-EQ --segment nse_cm --side B --qty 1 --type MKT --product CNC
  neo order place --symbol INFY-EQ --segment nse_cm --side S --qty 10 --type L --price 1540.50 --product MIS`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			p.TransactionType = models.TransactionType(side)
			p.ProductCode = models.ProductType(product)
			p.PriceType = models.PriceType(priceType)

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.PlaceOrder(ctx, p)
			if err != nil {
				output.Error("Order failed: %v", err)
				return err
			}
			if res.OK() {
				output.Success("✓ Order placed")
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&p.TradingSymbol, "symbol", "", "trading symbol (e.g. RELIANCE-EQ)")
	cmd.Flags().StringVar(&p.ExchangeSegment, "segment", "nse_cm", "exchange segment")
	cmd.Flags().StringVar(&side, "side", "", "B (buy) or S (sell)")
	cmd.Flags().StringVar(&p.Quantity, "qty", "", "order quantity")
	cmd.Flags().StringVar(&priceType, "type", "MKT", "price type: MKT, L, SL, SL-M")
	cmd.Flags().StringVar(&p.Price, "price", "0", "limit price")
	cmd.Flags().StringVar(&p.TriggerPrice, "trigger", "0", "trigger price for SL orders")
	cmd.Flags().StringVar(&product, "product", "CNC", "product: CNC, MIS, NRML")
	cmd.Flags().StringVar(&p.AMO, "amo", "NO", "after-market order: YES or NO")
	cmd.Flags().StringVar(&p.Tag, "tag", "", "optional order tag")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("side")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newOrderModifyCmd(app *App) *cobra.Command {
	var p models.ModifyOrderParams
	var side, product, priceType string

	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Modify an open order",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			p.TransactionType = models.TransactionType(side)
			p.ProductCode = models.ProductType(product)
			p.PriceType = models.PriceType(priceType)

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.ModifyOrder(ctx, p)
			if err != nil {
				output.Error("Modify failed: %v", err)
				return err
			}
			if res.OK() {
				output.Success("✓ Order modified")
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&p.OrderNo, "order", "", "order number")
	cmd.Flags().StringVar(&p.InstrumentToken, "token", "", "instrument token")
	cmd.Flags().StringVar(&p.TradingSymbol, "symbol", "", "trading symbol")
	cmd.Flags().StringVar(&p.ExchangeSegment, "segment", "nse_cm", "exchange segment")
	cmd.Flags().StringVar(&side, "side", "", "B (buy) or S (sell)")
	cmd.Flags().StringVar(&p.Quantity, "qty", "", "new quantity")
	cmd.Flags().StringVar(&priceType, "type", "L", "price type: MKT, L, SL, SL-M")
	cmd.Flags().StringVar(&p.Price, "price", "0", "new limit price")
	cmd.Flags().StringVar(&p.TriggerPrice, "trigger", "0", "new trigger price")
	cmd.Flags().StringVar(&product, "product", "CNC", "product: CNC, MIS, NRML")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderCancelCmd(app *App) *cobra.Command {
	var p models.CancelOrderParams

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel an open order",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.CancelOrder(ctx, p)
			if err != nil {
				output.Error("Cancel failed: %v", err)
				return err
			}
			if res.OK() {
				output.Success("✓ Order cancelled")
			}
			return renderResult(output, res)
		},
	}

	cmd.Flags().StringVar(&p.OrderNo, "order", "", "order number")
	cmd.Flags().StringVar(&p.TradingSymbol, "symbol", "", "trading symbol")
	cmd.Flags().StringVar(&p.AMO, "amo", "NO", "after-market order: YES or NO")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderBookCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Show today's order book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.OrderReport(ctx)
			if err != nil {
				output.Error("Order book failed: %v", err)
				return err
			}
			if output.IsJSON() || res.Failed() || !res.OK() {
				return renderResult(output, res)
			}

			rows := dataRows(res.Data)
			if len(rows) == 0 {
				output.Dim("No orders today")
				return nil
			}

			table := NewTable(output, "ORDER NO", "SYMBOL", "SIDE", "TYPE", "QTY", "PRICE", "STATUS")
			for _, row := range rows {
				table.AddRow(
					strField(row, "nOrdNo"),
					strField(row, "trdSym"),
					strField(row, "trnsTp"),
					strField(row, "prcTp"),
					strField(row, "qty"),
					strField(row, "prc"),
					FormatOrderStatus(strField(row, "ordSt")),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newOrderHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <order-no>",
		Short: "Show the state transitions of one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.OrderHistory(ctx, args[0])
			if err != nil {
				output.Error("Order history failed: %v", err)
				return err
			}
			return renderResult(output, res)
		},
	}
}

func newTradeBookCmd(app *App) *cobra.Command {
	var orderNo string

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Show today's trade book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := orderContext(cmd)
			defer cancel()

			res, err := app.Client.TradeReport(ctx, orderNo)
			if err != nil {
				output.Error("Trade book failed: %v", err)
				return err
			}
			if output.IsJSON() || res.Failed() || !res.OK() {
				return renderResult(output, res)
			}

			rows := dataRows(res.Data)
			if len(rows) == 0 {
				output.Dim("No trades today")
				return nil
			}

			table := NewTable(output, "ORDER NO", "SYMBOL", "SIDE", "QTY", "PRICE", "TIME")
			for _, row := range rows {
				table.AddRow(
					strField(row, "nOrdNo"),
					strField(row, "trdSym"),
					strField(row, "trnsTp"),
					strField(row, "fldQty"),
					strField(row, "avgPrc"),
					strField(row, "exTm"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&orderNo, "order", "", "filter by order number")
	return cmd
}
