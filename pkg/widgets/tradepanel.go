package widgets

import (
	"fmt"

	"github.com/curvedex/curveui/pkg/bus"
	"github.com/curvedex/curveui/pkg/dom"
	"github.com/curvedex/curveui/pkg/runtime"
	"github.com/curvedex/curveui/pkg/vdom"
)

// Quoter fetches the current bonding-curve price for a symbol. It stands in
// for the pricing adapter, which is an external collaborator.
type Quoter func(symbol string) (float64, error)

// TradePanel drives one buy flow: it mounts in a loading state, resolves a
// quote through its Quoter, and renders either the quote with a buy button
// or a distinct error state. A quote that arrives after unmount is dropped.
type TradePanel struct {
	runtime.Component
	bus    *bus.Bus
	quote  Quoter
	symbol string
}

// NewTradePanel creates an unmounted panel for symbol.
func NewTradePanel(b *bus.Bus, q Quoter, symbol string) *TradePanel {
	w := &TradePanel{bus: b, quote: q, symbol: symbol}
	w.Init(w,
		runtime.WithRootAttrs(map[string]string{"class": "trade-panel"}),
		runtime.WithState(map[string]any{"loading": true}))
	return w
}

// Load resolves the quote and applies it to state. The mount itself never
// waits for this; callers invoke it after mount (possibly from a goroutine)
// and the StillMounted guard drops late results.
func (w *TradePanel) Load() {
	price, err := w.quote(w.symbol)
	if !w.StillMounted() {
		return
	}
	if err != nil {
		w.SetState(map[string]any{"loading": false, "error": err.Error()})
		return
	}
	w.SetState(map[string]any{"loading": false, "error": nil, "price": price})
}

// Render shows loading, error, or the live quote.
func (w *TradePanel) Render() vdom.RenderOutput {
	st := w.State()
	if st["loading"] == true {
		return vdom.Tree(vdom.H("div", map[string]any{"class": "loading"},
			"Loading quote for "+w.symbol))
	}
	if errv, ok := st["error"]; ok && errv != nil {
		return vdom.Tree(vdom.H("div", map[string]any{"class": "error"},
			fmt.Sprint(errv)))
	}
	price, _ := st["price"].(float64)
	return vdom.Tree(vdom.H("div", map[string]any{"class": "quote"},
		vdom.H("span", map[string]any{"class": "price"}, fmt.Sprintf("%.4f", price)),
		vdom.H("button", map[string]any{
			"class":   "buy",
			"onclick": dom.Handler(func(*dom.Event) { w.submit() }),
		}, "Buy "+w.symbol),
	))
}

func (w *TradePanel) submit() {
	w.bus.Emit(TopicTradeSubmitted, w.symbol)
}
