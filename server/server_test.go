package server

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/chart"
	"git.sr.ht/~whereswaldon/voicestats/config"
	"github.com/sirupsen/logrus"
)

type staticSource struct {
	session backend.Session
}

func (s staticSource) Current() backend.Session {
	return s.session
}

func newTestServer(t *testing.T, cfg config.Server) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = 1000
	}
	src := staticSource{session: backend.Session{
		ID:     backend.DefaultSessionID,
		Source: "built-in",
		Data:   chart.DefaultDataset(),
	}}
	srv := httptest.NewServer(New(cfg, src, log))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestClipsStatsSVG(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	resp, body := get(t, srv, "/clips-stats.svg?width=400", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	for _, want := range []string{`<svg`, `width="400"`, `>7/24/2018</text>`, `class="total"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected SVG to contain %q", want)
		}
	}
}

func TestClipsStatsSVGLocale(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	_, body := get(t, srv, "/clips-stats.svg?locale=de", nil)
	if !strings.Contains(body, ">24.7.2018</text>") {
		t.Errorf("expected German date labels in %s", body)
	}
}

func TestBadWidth(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	for _, width := range []string{"wide", "-5", "NaN"} {
		resp, body := get(t, srv, "/clips-stats.svg?width="+width, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("width=%s: expected 400, got %d: %s", width, resp.StatusCode, body)
		}
	}
}

func TestClipsStatsJSON(t *testing.T) {
	srv := newTestServer(t, config.Server{MaxWidth: 800})
	resp, body := get(t, srv, "/clips-stats.json?width=5000", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var scene struct {
		Width  float64
		Height float64
		Plots  []struct {
			Path []struct {
				Verb string
			}
		}
	}
	if err := json.Unmarshal([]byte(body), &scene); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scene.Width != 800 {
		t.Errorf("expected the width to be clamped to 800, got %v", scene.Width)
	}
	if scene.Height != chart.Height {
		t.Errorf("expected height %v, got %v", chart.Height, scene.Height)
	}
	if len(scene.Plots) != int(chart.NumSeries) {
		t.Fatalf("expected %d plots, got %d", chart.NumSeries, len(scene.Plots))
	}
	if verb := scene.Plots[0].Path[0].Verb; verb != "M" {
		t.Errorf("expected paths to start with a move, got %q", verb)
	}
}

func TestClipsStatsPNG(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	resp, body := get(t, srv, "/clips-stats.png?width=300", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	img, err := png.Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != chart.Height {
		t.Errorf("unexpected image size %v", b)
	}
}

func TestDataset(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	resp, body := get(t, srv, "/dataset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	d, err := backend.ReadDataset(strings.NewReader(body))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if d.Len() != chart.DefaultDataset().Len() {
		t.Errorf("expected %d samples, got %d", chart.DefaultDataset().Len(), d.Len())
	}
	if src := resp.Header.Get("X-Dataset-Source"); src != "built-in" {
		t.Errorf("unexpected source header %q", src)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	srv := newTestServer(t, config.Server{})
	if resp, body := get(t, srv, "/healthz", nil); resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Errorf("unexpected health response %d %q", resp.StatusCode, body)
	}
	get(t, srv, "/clips-stats.svg", nil)
	get(t, srv, "/clips-stats.svg?width=bad", nil)
	_, body := get(t, srv, "/metrics", nil)
	for _, want := range []string{
		`voicestats_renders_total{code="200",format="svg"} 1`,
		`voicestats_renders_total{code="400",format="svg"} 1`,
		`voicestats_dataset_samples 5`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, config.Server{AllowOrigin: []string{"https://example.org"}})
	resp, _ := get(t, srv, "/clips-stats.svg", http.Header{"Origin": {"https://example.org"}})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://example.org" {
		t.Errorf("expected the origin to be allowed, got %q", got)
	}
	resp, _ = get(t, srv, "/clips-stats.svg", http.Header{"Origin": {"https://elsewhere.org"}})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for other origins, got %q", got)
	}
}
