package devserver

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvedex/curveui/pkg/dom"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\ndev: true\nrender_debounce: 10ms\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.True(t, cfg.Dev)
	assert.Equal(t, 10*time.Millisecond, cfg.RenderDebounce)
	assert.Equal(t, 8, cfg.SessionBuffer, "unset fields keep their defaults")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestServer_Index(t *testing.T) {
	d := dom.NewDocument()
	el := d.CreateElement("h1")
	el.SetTextContent("curve")
	d.Body().AppendChild(el)

	s := New(DefaultConfig(), d, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>curve</h1>")
}

func TestServer_Health(t *testing.T) {
	s := New(DefaultConfig(), dom.NewDocument(), nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, 200, rec.Code)
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 0, body.Sessions)
}

func TestServer_ApplyFanout(t *testing.T) {
	d := dom.NewDocument()
	s := New(DefaultConfig(), d, nil)
	ch := s.register("session-a")
	defer s.unregister("session-a")

	s.Apply(func() {
		el := d.CreateElement("p")
		el.SetTextContent("hello")
		d.Body().AppendChild(el)
	})

	select {
	case up := <-ch:
		assert.Equal(t, 1, up.Seq)
		assert.Contains(t, up.HTML, "<p>hello</p>")
	default:
		t.Fatal("expected a snapshot on the session channel")
	}
}

func TestServer_ApplySlowSessionDropsSnapshot(t *testing.T) {
	d := dom.NewDocument()
	cfg := DefaultConfig()
	cfg.SessionBuffer = 1
	s := New(cfg, d, nil)
	ch := s.register("session-a")
	defer s.unregister("session-a")

	s.Apply(func() {})
	s.Apply(func() {}) // buffer full; must not block

	up := <-ch
	assert.Equal(t, 1, up.Seq)
	select {
	case <-ch:
		t.Fatal("second snapshot should have been dropped")
	default:
	}
}
