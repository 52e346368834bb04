package api

import "movement_mesh/pkg/mesh"

// VertexJSON is a vertex in responses.
type VertexJSON struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LinkJSON is a directed, motion-labeled edge in responses.
type LinkJSON struct {
	From   int         `json:"from"`
	To     int         `json:"to"`
	Motion mesh.Motion `json:"motion"`
}

// BoundsJSON is the bounding box of a level's vertices.
type BoundsJSON struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// LevelResponse is the JSON response for GET /api/v1/levels/{id}.
type LevelResponse struct {
	ID       int          `json:"id"`
	Name     string       `json:"name,omitempty"`
	Vertices []VertexJSON `json:"vertices"`
	Links    []LinkJSON   `json:"links"`
	Bounds   *BoundsJSON  `json:"bounds,omitempty"`
}

// LevelSummary describes one level in GET /api/v1/levels.
type LevelSummary struct {
	ID            int    `json:"id"`
	Name          string `json:"name,omitempty"`
	NumVertices   int    `json:"num_vertices"`
	NumLinks      int    `json:"num_links"`
	NumComponents int    `json:"num_components"`
}

// LevelsResponse is the JSON response for GET /api/v1/levels.
type LevelsResponse struct {
	Levels []LevelSummary `json:"levels"`
}

// EdgeResponse is the JSON response for GET /api/v1/levels/{id}/edges/{from}/{to}.
type EdgeResponse struct {
	From      int         `json:"from"`
	To        int         `json:"to"`
	Motion    mesh.Motion `json:"motion"`
	Connected bool        `json:"connected"`
}

// NearestRequest is the JSON body for POST /api/v1/levels/{id}/nearest.
type NearestRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NearestResponse is the JSON response for a successful nearest-vertex query.
type NearestResponse struct {
	Vertex   VertexJSON `json:"vertex"`
	Distance float64    `json:"distance"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Levels int    `json:"levels"`
}

func vertexJSON(v mesh.Vertex) VertexJSON {
	return VertexJSON{ID: v.ID, X: v.X, Y: v.Y}
}
