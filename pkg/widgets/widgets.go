// Package widgets contains the reusable UI widgets the exchange front end
// is assembled from. Each widget is a runtime.Widget; cross-widget
// communication goes through the event bus or a shared store, never through
// direct references into another widget's internals.
package widgets

// Bus topics shared by the trading UI.
const (
	// TopicWalletConnected carries the connected wallet address (string).
	TopicWalletConnected = "wallet.connected"
	// TopicWalletDisconnected carries no payload.
	TopicWalletDisconnected = "wallet.disconnected"
	// TopicTradeSubmitted carries the traded token symbol (string).
	TopicTradeSubmitted = "trade.submitted"
)

// Token is one tradable asset row.
type Token struct {
	Symbol string
	Name   string
	Price  float64
}
