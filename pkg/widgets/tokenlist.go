package widgets

import (
	"fmt"

	"github.com/curvedex/curveui/pkg/runtime"
	"github.com/curvedex/curveui/pkg/store"
	"github.com/curvedex/curveui/pkg/vdom"
)

// TokenList renders the tradable token table from a shared store. Rows are
// keyed by symbol so price updates and re-sorts move existing DOM nodes
// instead of rebuilding them.
type TokenList struct {
	runtime.Component
	store *store.Store
}

// NewTokenList creates an unmounted list observing st.
func NewTokenList(st *store.Store) *TokenList {
	w := &TokenList{store: st}
	w.Init(w)
	return w
}

// OnMount seeds state from the store and subscribes for future merges.
func (w *TokenList) OnMount() {
	w.applySnapshot(w.store.GetState())
	off := w.store.Subscribe(func(state map[string]any) {
		if w.StillMounted() {
			w.applySnapshot(state)
		}
	})
	w.RegisterCleanup(off)
}

func (w *TokenList) applySnapshot(state map[string]any) {
	w.SetState(map[string]any{"tokens": state["tokens"]})
}

// Render builds the keyed token rows.
func (w *TokenList) Render() vdom.RenderOutput {
	tokens, _ := w.State()["tokens"].([]Token)
	if len(tokens) == 0 {
		return vdom.Tree(vdom.H("p", map[string]any{"class": "empty"}, "No tokens listed"))
	}
	rows := make([]*vdom.VNode, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, vdom.H("li",
			map[string]any{"key": tok.Symbol, "class": "token-row"},
			vdom.H("span", map[string]any{"class": "sym"}, tok.Symbol),
			vdom.H("span", map[string]any{"class": "price"}, fmt.Sprintf("%.4f", tok.Price)),
		))
	}
	return vdom.Tree(vdom.H("ul", map[string]any{"class": "token-list"}, rows))
}
