package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"strconv"

	"movement_mesh/pkg/level"
	"movement_mesh/pkg/mesh"
	"movement_mesh/pkg/snap"
)

// LevelStore is the read side of a level catalog.
type LevelStore interface {
	IDs() []int
	Get(id int) (*level.Description, bool)
	Mesh(id int) *mesh.Graph
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	levels  LevelStore
	maxSnap float64
}

// NewHandlers creates handlers over the given level store.
func NewHandlers(levels LevelStore, maxSnapDist float64) *Handlers {
	return &Handlers{
		levels:  levels,
		maxSnap: maxSnapDist,
	}
}

// HandleLevels handles GET /api/v1/levels.
func (h *Handlers) HandleLevels(w http.ResponseWriter, r *http.Request) {
	resp := LevelsResponse{Levels: []LevelSummary{}}
	for _, id := range h.levels.IDs() {
		g := h.levels.Mesh(id)
		summary := LevelSummary{
			ID:            id,
			NumVertices:   g.VertexCount(),
			NumLinks:      len(g.Links()),
			NumComponents: len(g.Components()),
		}
		if d, ok := h.levels.Get(id); ok {
			summary.Name = d.Name
		}
		resp.Levels = append(resp.Levels, summary)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLevel handles GET /api/v1/levels/{id}. Unknown levels return an
// empty graph rather than an error.
func (h *Handlers) HandleLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	g := h.levels.Mesh(id)

	resp := LevelResponse{
		ID:       id,
		Vertices: []VertexJSON{},
		Links:    []LinkJSON{},
	}
	if d, ok := h.levels.Get(id); ok {
		resp.Name = d.Name
	}
	for _, v := range g.Vertices() {
		resp.Vertices = append(resp.Vertices, vertexJSON(v))
	}
	for _, l := range g.Links() {
		resp.Links = append(resp.Links, LinkJSON{From: l.From, To: l.To, Motion: l.Motion})
	}
	if g.VertexCount() > 0 {
		b := g.Bounds()
		resp.Bounds = &BoundsJSON{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleVertex handles GET /api/v1/levels/{id}/vertices/{vid}.
func (h *Handlers) HandleVertex(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	vid, ok := pathInt(w, r, "vid")
	if !ok {
		return
	}

	v, err := h.levels.Mesh(id).VertexAt(vid)
	if err != nil {
		writeError(w, http.StatusNotFound, "vertex_out_of_range", "vid")
		return
	}
	writeJSON(w, http.StatusOK, vertexJSON(v))
}

// HandleEdge handles GET /api/v1/levels/{id}/edges/{from}/{to}.
func (h *Handlers) HandleEdge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	from, ok := pathInt(w, r, "from")
	if !ok {
		return
	}
	to, ok := pathInt(w, r, "to")
	if !ok {
		return
	}

	m, err := h.levels.Mesh(id).Edge(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "vertex_out_of_range", "")
		return
	}
	writeJSON(w, http.StatusOK, EdgeResponse{
		From:      from,
		To:        to,
		Motion:    m,
		Connected: m != mesh.Stop,
	})
}

// HandleNearest handles POST /api/v1/levels/{id}/nearest.
func (h *Handlers) HandleNearest(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var req NearestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if !finite(req.X) || !finite(req.Y) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "")
		return
	}

	res, err := snap.New(h.levels.Mesh(id), snap.WithMaxDist(h.maxSnap)).Nearest(req.X, req.Y)
	if err != nil {
		if errors.Is(err, snap.ErrEmpty) {
			writeError(w, http.StatusNotFound, "level_empty", "")
			return
		}
		if errors.Is(err, snap.ErrPointTooFar) {
			writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_vertex", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	writeJSON(w, http.StatusOK, NearestResponse{
		Vertex:   vertexJSON(res.Vertex),
		Distance: res.Dist,
	})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Levels: len(h.levels.IDs())})
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", name)
		return 0, false
	}
	return n, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
