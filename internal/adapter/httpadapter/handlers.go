package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/xlsx"
	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/pipeline"
)

const (
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Query parameter names shared by every view endpoint.
const (
	paramSpecies = "species"
	paramBorough = "borough"
	paramSteward = "steward"
)

// parseSelection reads the control values from the query string. A missing
// species or borough key selects the dashboard defaults; a key present with
// only empty values selects nothing. A missing steward selects every tier.
func parseSelection(q url.Values, defaults domain.Selection) (domain.Selection, error) {
	sel := domain.Selection{
		Species:    listParam(q, paramSpecies, defaults.Species),
		Boroughs:   listParam(q, paramBorough, defaults.Boroughs),
		MaxSteward: domain.MaxSteward,
	}
	if raw := q.Get(paramSteward); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Selection{}, fmt.Errorf("%w: steward %q is not an integer", pipeline.ErrInvalidSelection, raw)
		}
		sel.MaxSteward = n
	}
	return sel, nil
}

func listParam(q url.Values, key string, fallback []string) []string {
	values, ok := q[key]
	if !ok {
		return fallback
	}
	out := []string{}
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// selection parses the request's selection, writing a 400 on failure.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (domain.Selection, bool) {
	sel, err := parseSelection(r.URL.Query(), s.pipeline.DefaultSelection())
	if err == nil {
		err = s.pipeline.Validate(sel)
	}
	if err != nil {
		s.writeError(w, err)
		return domain.Selection{}, false
	}
	return sel, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrInvalidSelection):
		status = http.StatusBadRequest
	case errors.Is(err, pipeline.ErrBasemapDisabled):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeBytes(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}

func (s *Server) writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.writeError(w, fmt.Errorf("encode png: %w", err))
		return
	}
	s.writeBytes(w, contentTypePNG, buf.Bytes())
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.pipeline.Options())
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	prof, err := s.pipeline.Profile()
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, prof)
}

func (s *Server) handleBar(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	view, err := s.pipeline.Bar(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleBarPNG(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.pipeline.BarPNG(r.Context(), sel, &buf); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeBytes(w, contentTypePNG, buf.Bytes())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	view, err := s.pipeline.Map(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	img, err := s.pipeline.MapImage(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePNG(w, img)
}

func (s *Server) handleStaticMap(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	img, err := s.pipeline.StaticMap(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePNG(w, img)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	view, err := s.pipeline.Summary(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	view, err := s.pipeline.Dashboard(r.Context(), sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	rows, err := s.pipeline.Filter(sel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.Export(&buf, sel, rows); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="street-trees.xlsx"`)
	s.writeBytes(w, contentTypeXLSX, buf.Bytes())
}
