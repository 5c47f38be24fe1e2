// curveui-demo mounts the trading widgets into an in-memory document and
// serves a live preview of it. It simulates a wallet session and a ticking
// price feed so the diffing, bus, and store paths are all exercised.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curvedex/curveui/pkg/bus"
	"github.com/curvedex/curveui/pkg/devserver"
	"github.com/curvedex/curveui/pkg/dom"
	"github.com/curvedex/curveui/pkg/store"
	"github.com/curvedex/curveui/pkg/widgets"
)

var (
	configPath string
	addrFlag   string
)

func main() {
	flag.StringVar(&configPath, "config", "", "path to devserver YAML config")
	flag.StringVar(&addrFlag, "addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "curveui-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := devserver.DefaultConfig()
	if configPath != "" {
		loaded, err := devserver.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}

	level := slog.LevelInfo
	if cfg.Dev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	doc := dom.NewDocument()
	b := bus.New(bus.WithLogger(logger))
	st := store.New(map[string]any{"tokens": seedTokens()}, store.WithLogger(logger))
	srv := devserver.New(cfg, doc, logger)

	badge := widgets.NewWalletBadge(b)
	list := widgets.NewTokenList(st)
	panel := widgets.NewTradePanel(b, staticQuoter(st), "CURVE")

	var mountErr error
	srv.Apply(func() {
		for _, m := range []func() error{
			func() error { return badge.Mount(doc.Body()) },
			func() error { return list.Mount(doc.Body()) },
			func() error { return panel.Mount(doc.Body()) },
		} {
			if err := m(); err != nil && mountErr == nil {
				mountErr = err
			}
		}
	})
	if mountErr != nil {
		return fmt.Errorf("mount widgets: %w", mountErr)
	}

	b.On(widgets.TopicTradeSubmitted, func(p any) {
		logger.Info("trade submitted", "symbol", p)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go srv.Apply(panel.Load)
	go simulate(ctx, srv, b, st, logger)

	return srv.Run(ctx)
}

func seedTokens() []widgets.Token {
	return []widgets.Token{
		{Symbol: "CURVE", Name: "Curve Governance", Price: 0.0042},
		{Symbol: "ETH", Name: "Ether", Price: 1820.50},
		{Symbol: "USDC", Name: "USD Coin", Price: 1.0},
	}
}

// staticQuoter resolves quotes from the token store instead of a chain RPC.
func staticQuoter(st *store.Store) widgets.Quoter {
	return func(symbol string) (float64, error) {
		raw, _ := st.Get("tokens")
		tokens, _ := raw.([]widgets.Token)
		for _, tok := range tokens {
			if tok.Symbol == symbol {
				return tok.Price, nil
			}
		}
		return 0, fmt.Errorf("no listing for %s", symbol)
	}
}

// simulate drives a fake wallet session and a price ticker through the
// server's Apply gate so every mutation is snapshotted to sessions.
func simulate(ctx context.Context, srv *devserver.Server, b *bus.Bus, st *store.Store, logger *slog.Logger) {
	connect := time.After(2 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-connect:
			srv.Apply(func() {
				b.Emit(widgets.TopicWalletConnected, "0xd533a949740bb3306d119cc777fa900ba034cd52")
			})
			logger.Debug("simulated wallet connected")
		case <-ticker.C:
			tick++
			srv.Apply(func() {
				st.SetState(map[string]any{"tokens": driftPrices(seedTokens(), tick)})
			})
		}
	}
}

func driftPrices(tokens []widgets.Token, tick int) []widgets.Token {
	for i := range tokens {
		drift := 1 + 0.01*math.Sin(float64(tick+i*3))
		tokens[i].Price *= drift
	}
	return tokens
}
