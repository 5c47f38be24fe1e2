package widgets

import (
	"fmt"

	"github.com/curvedex/curveui/pkg/bus"
	"github.com/curvedex/curveui/pkg/runtime"
	"github.com/curvedex/curveui/pkg/vdom"
)

// WalletBadge shows the connected wallet address. It is a legacy
// string-template widget: wholesale re-render with BindEvents, driven
// entirely by bus topics.
type WalletBadge struct {
	runtime.Component
	bus *bus.Bus
}

// NewWalletBadge creates an unmounted badge listening on b.
func NewWalletBadge(b *bus.Bus) *WalletBadge {
	w := &WalletBadge{bus: b}
	w.Init(w,
		runtime.WithRootTag("header"),
		runtime.WithState(map[string]any{"address": ""}))
	return w
}

// OnMount subscribes to wallet topics; subscriptions are released at
// unmount through registered cleanups.
func (w *WalletBadge) OnMount() {
	offConn := w.bus.On(TopicWalletConnected, func(p any) {
		addr, _ := p.(string)
		if w.StillMounted() {
			w.SetState(map[string]any{"address": addr})
		}
	})
	offDisc := w.bus.On(TopicWalletDisconnected, func(any) {
		if w.StillMounted() {
			w.SetState(map[string]any{"address": ""})
		}
	})
	w.RegisterCleanup(offConn)
	w.RegisterCleanup(offDisc)
}

// Render emits the badge markup for the current connection state.
func (w *WalletBadge) Render() vdom.RenderOutput {
	addr, _ := w.State()["address"].(string)
	if addr == "" {
		return vdom.HTML(`<span class="wallet wallet-off">Not connected</span>`)
	}
	return vdom.HTML(fmt.Sprintf(
		`<span class="wallet wallet-on" title="%s">%s</span>`, addr, shortAddr(addr)))
}

func shortAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
