package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/curvedex/curveui/pkg/dom"
)

// Update is one snapshot pushed to a websocket session.
type Update struct {
	Seq  int    `json:"seq"`
	HTML string `json:"html"`
}

// Server exposes a document over HTTP. UI mutations happen on the app's
// goroutine through Apply, which snapshots the document under the server's
// lock and fans the result out to connected sessions.
type Server struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	doc      *dom.Document
	seq      int
	sessions map[string]chan Update
}

// New creates a server for doc. A nil logger falls back to slog.Default.
func New(cfg Config, doc *dom.Document, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger.With("component", "devserver"),
		doc:      doc,
		sessions: make(map[string]chan Update),
	}
}

// Apply runs a UI mutation under the snapshot lock and pushes the resulting
// document to every connected session. All document/component mutations in
// an app served by this server go through Apply.
func (s *Server) Apply(mutate func()) {
	s.mu.Lock()
	mutate()
	s.seq++
	up := Update{Seq: s.seq, HTML: s.doc.HTML()}
	sessions := make([]chan Update, 0, len(s.sessions))
	for _, ch := range s.sessions {
		sessions = append(sessions, ch)
	}
	s.mu.Unlock()

	for _, ch := range sessions {
		select {
		case ch <- up:
		default:
			// Slow session: it will catch up on the next snapshot.
		}
	}
}

// Routes returns the HTTP handler: index, health, and websocket stream.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Routes()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("devserver listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	html := s.doc.HTML()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><head><title>curveui preview</title></head>%s</html>", html)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, s.sessionCount())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "session closed")

	id := uuid.NewString()
	ch := s.register(id)
	defer s.unregister(id)
	s.logger.Info("session connected", "session", id)

	ctx := r.Context()
	// Initial snapshot so a fresh session has the current document.
	s.mu.Lock()
	first := Update{Seq: s.seq, HTML: s.doc.HTML()}
	s.mu.Unlock()
	if err := wsjson.Write(ctx, conn, first); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case up := <-ch:
			if err := s.pushUpdate(ctx, conn, up); err != nil {
				s.logger.Debug("session dropped", "session", id, "err", err)
				return
			}
		}
	}
}

func (s *Server) pushUpdate(ctx context.Context, conn *websocket.Conn, up Update) error {
	if s.cfg.RenderDebounce > 0 {
		timer := time.NewTimer(s.cfg.RenderDebounce)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return wsjson.Write(ctx, conn, up)
}

func (s *Server) register(id string) chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, s.cfg.SessionBuffer)
	s.sessions[id] = ch
	return ch
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
