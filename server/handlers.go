package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/chart"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
)

// badRequest is a query parameter problem reported to the client.
type badRequest struct {
	param string
	err   error
}

func (e *badRequest) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.param, e.err)
}

// width reads the width query parameter, clamped to the configured maximum.
func (s *Server) width(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return min(DefaultWidth, s.maxWidth()), nil
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &badRequest{param: "width", err: err}
	}
	if math.IsNaN(w) || w < 0 {
		return 0, &badRequest{param: "width", err: fmt.Errorf("%q is not a non-negative number", raw)}
	}
	return min(w, s.maxWidth()), nil
}

func (s *Server) maxWidth() float64 {
	if s.cfg.MaxWidth <= 0 {
		return DefaultWidth
	}
	return s.cfg.MaxWidth
}

// scene renders the current dataset for the request's width and locale.
func (s *Server) scene(r *http.Request) (chart.Scene, error) {
	width, err := s.width(r)
	if err != nil {
		return chart.Scene{}, err
	}
	var opts []chart.Option
	if locale := r.URL.Query().Get("locale"); locale != "" {
		opts = append(opts, chart.WithDateFormatter(l10n.New(locale).FormatDate))
	}
	return chart.Render(s.source.Current().Data, width, opts...), nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if br, ok := err.(*badRequest); ok {
		http.Error(w, br.Error(), http.StatusBadRequest)
		return
	}
	s.log.WithError(err).WithField("path", r.URL.Path).Error("failed rendering chart")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// respond buffers the encoded body so encoding failures can still produce an
// error status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, contentType string, encode func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) clipsStatsSVG(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := chart.SVGOptions{
		Minify:  q.Has("minify"),
		NoStyle: q.Has("nostyle"),
	}
	s.respond(w, r, "image/svg+xml", func(buf *bytes.Buffer) error {
		return sc.EncodeSVG(buf, opts)
	})
}

func (s *Server) clipsStatsPNG(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "image/png", func(buf *bytes.Buffer) error {
		return sc.EncodePNG(buf, chart.PNGOptions{})
	})
}

func (s *Server) clipsStatsJSON(w http.ResponseWriter, r *http.Request) {
	sc, err := s.scene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "application/json", func(buf *bytes.Buffer) error {
		return json.NewEncoder(buf).Encode(sc)
	})
}

func (s *Server) dataset(w http.ResponseWriter, r *http.Request) {
	session := s.source.Current()
	w.Header().Set("X-Dataset-Source", session.Source)
	s.respond(w, r, "text/csv; charset=utf-8", func(buf *bytes.Buffer) error {
		return backend.WriteDataset(buf, session.Data)
	})
}
