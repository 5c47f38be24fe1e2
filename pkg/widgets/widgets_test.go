package widgets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvedex/curveui/pkg/bus"
	"github.com/curvedex/curveui/pkg/dom"
	"github.com/curvedex/curveui/pkg/store"
)

func TestWalletBadge_BusDriven(t *testing.T) {
	d := dom.NewDocument()
	b := bus.New()
	w := NewWalletBadge(b)
	require.NoError(t, w.Mount(d.Body()))

	el, ok := w.Element().Query(".wallet-off")
	require.True(t, ok)
	assert.Equal(t, "Not connected", el.TextContent())

	b.Emit(TopicWalletConnected, "0x1234567890abcdef")

	el, ok = w.Element().Query(".wallet-on")
	require.True(t, ok)
	assert.Equal(t, "0x1234…cdef", el.TextContent())

	b.Emit(TopicWalletDisconnected, nil)
	_, ok = w.Element().Query(".wallet-off")
	assert.True(t, ok)

	// Unmount releases the subscriptions through registered cleanups.
	w.Unmount()
	assert.Equal(t, 0, b.SubscriberCount(TopicWalletConnected))
	assert.Equal(t, 0, b.SubscriberCount(TopicWalletDisconnected))
}

func TestTokenList_StoreDriven(t *testing.T) {
	d := dom.NewDocument()
	st := store.New(map[string]any{"tokens": []Token{
		{Symbol: "CURVE", Price: 0.0042},
		{Symbol: "ETH", Price: 1820.5},
	}})
	w := NewTokenList(st)
	require.NoError(t, w.Mount(d.Body()))

	rows := w.Element().QueryAll(".token-row")
	require.Len(t, rows, 2)
	curveRow := rows[0]

	// Re-sorting the store moves the existing row nodes.
	st.SetState(map[string]any{"tokens": []Token{
		{Symbol: "ETH", Price: 1821.0},
		{Symbol: "CURVE", Price: 0.0042},
	}})

	rows = w.Element().QueryAll(".token-row")
	require.Len(t, rows, 2)
	assert.Same(t, curveRow, rows[1], "keyed row should move, not be recreated")

	price, ok := rows[0].Query(".price")
	require.True(t, ok)
	assert.Equal(t, "1821.0000", price.TextContent())

	w.Unmount()
	assert.Equal(t, 0, st.SubscriberCount(), "unmount must release the store subscription")
}

func TestTokenList_Empty(t *testing.T) {
	d := dom.NewDocument()
	w := NewTokenList(store.New(nil))
	require.NoError(t, w.Mount(d.Body()))

	el, ok := w.Element().Query(".empty")
	require.True(t, ok)
	assert.Equal(t, "No tokens listed", el.TextContent())
}

func TestTradePanel_LoadSuccess(t *testing.T) {
	d := dom.NewDocument()
	b := bus.New()
	w := NewTradePanel(b, func(string) (float64, error) { return 0.0042, nil }, "CURVE")
	require.NoError(t, w.Mount(d.Body()))

	_, ok := w.Element().Query(".loading")
	require.True(t, ok, "panel must render a loading state before data resolves")

	w.Load()

	_, ok = w.Element().Query(".loading")
	assert.False(t, ok, "loading indicator must be gone, not hidden")
	price, ok := w.Element().Query(".price")
	require.True(t, ok)
	assert.Equal(t, "0.0042", price.TextContent())

	var submitted string
	b.On(TopicTradeSubmitted, func(p any) { submitted, _ = p.(string) })
	btn, ok := w.Element().Query(".buy")
	require.True(t, ok)
	btn.Dispatch("click", nil)
	assert.Equal(t, "CURVE", submitted)
}

func TestTradePanel_LoadFailure(t *testing.T) {
	d := dom.NewDocument()
	w := NewTradePanel(bus.New(), func(string) (float64, error) {
		return 0, errors.New("curve contract unreachable")
	}, "CURVE")
	require.NoError(t, w.Mount(d.Body()))

	w.Load()

	el, ok := w.Element().Query(".error")
	require.True(t, ok, "failed load must render a distinct error state")
	assert.Equal(t, "curve contract unreachable", el.TextContent())
	_, ok = w.Element().Query(".buy")
	assert.False(t, ok)
}

func TestTradePanel_LateQuoteAfterUnmount(t *testing.T) {
	d := dom.NewDocument()
	w := NewTradePanel(bus.New(), func(string) (float64, error) { return 1, nil }, "CURVE")
	require.NoError(t, w.Mount(d.Body()))

	w.Unmount()
	w.Load() // must be dropped by the StillMounted guard, not panic

	_, ok := w.StateValue("price")
	assert.False(t, ok, "late quote applied to unmounted panel")
}
