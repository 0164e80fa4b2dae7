package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sectionview/internal/editor"
)

type Handler struct {
	presenter Presenter
	onPresent func(*editor.Presentation)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type HealthResponse struct {
	Status   string    `json:"status"`
	Nodes    int       `json:"nodes"`
	Sections int       `json:"sections"`
	LoadedAt time.Time `json:"loadedAt,omitzero"`
}

// Health handles GET /healthz. It reports 503 until a network is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	net := h.presenter.Network()
	if net == nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "no network"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Nodes:    net.NodeCount(),
		Sections: net.SectionCount(),
		LoadedAt: h.presenter.LoadedAt(),
	})
}

// GetPresentation handles GET /api/sections/{sectionId}/presentation.
// Query: order=1,2,3 selected=source-departure direction=forward
// leftDeparture=20 totalTravelTime=45.
func (h *Handler) GetPresentation(w http.ResponseWriter, r *http.Request) {
	id, err := sectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	q := r.URL.Query()
	req := editor.Request{
		SectionID: id,
		Selected:  q.Get("selected"),
		Direction: q.Get("direction"),
	}
	if req.OrderedNodeIDs, err = parseIDs(q.Get("order")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.LeftDeparture, err = parseOptionalFloat("leftDeparture", q.Get("leftDeparture")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	if req.TotalTravelTime, err = parseOptionalFloat("totalTravelTime", q.Get("totalTravelTime")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	h.present(w, r, req)
}

// PostPresentation handles POST /api/sections/{sectionId}/presentation with
// an editor.Request body. The path wins over a sectionId in the body.
func (h *Handler) PostPresentation(w http.ResponseWriter, r *http.Request) {
	id, err := sectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
		return
	}
	var req editor.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err), "bad_request")
		return
	}
	req.SectionID = id
	h.present(w, r, req)
}

func (h *Handler) present(w http.ResponseWriter, r *http.Request, req editor.Request) {
	p, err := h.presenter.Present(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), editor.Reason(err))
		return
	}
	if h.onPresent != nil {
		h.onPresent(p)
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrNoNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, editor.ErrUnknownSection), errors.Is(err, editor.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrBadSelection), errors.Is(err, editor.ErrBadDirection),
		errors.Is(err, editor.ErrDegenerateSection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func sectionID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "sectionId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid sectionId %q", raw)
	}
	return id, nil
}

func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q in order", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalFloat(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, s)
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Reason: reason})
}
