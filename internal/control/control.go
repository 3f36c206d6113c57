// Package control exposes telescope commands over HTTP.
package control

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/logging"
	"github.com/litescript/ls-telescope/internal/pacer"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
)

// Telescope is the command surface the server drives.
type Telescope interface {
	Move(da, de, dz float64)
	SetOrientation(azimuth, elevation float64)
	SetZoom(zoom float64)
	Reset()
	Snapshot() state.Snapshot
	Resolution() render.Resolution
	Location() astro.Observer
}

// Interest selects objects of interest.
type Interest interface {
	SetInteresting(names []string)
	Interesting() []string
}

// Server handles command requests.
type Server struct {
	scope    Telescope
	interest Interest
	stats    func() pacer.Stats
	log      *logging.Logger
}

// NewServer creates a server. interest and stats may be nil.
func NewServer(scope Telescope, interest Interest, stats func() pacer.Stats, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{scope: scope, interest: interest, stats: stats, log: log}
}

// AttachRoutes registers the command endpoints on mux.
func (s *Server) AttachRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/move", s.handleMove)
	mux.HandleFunc("/orientation", s.handleOrientation)
	mux.HandleFunc("/zoom", s.handleZoom)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/interesting", s.handleInteresting)
	mux.HandleFunc("/status", s.handleStatus)
}

// ServeMux returns a new mux with the command endpoints.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	s.AttachRoutes(mux)
	return mux
}

// MoveRequest is a relative pointing command in radians.
type MoveRequest struct {
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Zoom      float64 `json:"zoom"`
}

// OrientationRequest is an absolute pointing command in radians.
type OrientationRequest struct {
	Azimuth   *float64 `json:"azimuth"`
	Elevation *float64 `json:"elevation"`
}

// ZoomRequest sets the zoom factor.
type ZoomRequest struct {
	Zoom *float64 `json:"zoom"`
}

// InterestingRequest replaces the objects of interest.
type InterestingRequest struct {
	Objects []string `json:"objects"`
}

// Status describes the telescope state.
type Status struct {
	Azimuth      float64  `json:"azimuth"`
	Elevation    float64  `json:"elevation"`
	AzimuthDeg   float64  `json:"azimuth_deg"`
	ElevationDeg float64  `json:"elevation_deg"`
	Zoom         float64  `json:"zoom"`
	FOVX         float64  `json:"fov_x"`
	FOVY         float64  `json:"fov_y"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Revision     uint64   `json:"revision"`
	Interesting  []string `json:"interesting,omitempty"`
	Frames       uint64   `json:"frames"`
	Overruns     uint64   `json:"overruns"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodePost(w, r, &req) {
		return
	}
	s.scope.Move(req.Azimuth, req.Elevation, req.Zoom)
	s.log.Debug("move da=%.4f de=%.4f dz=%.2f", req.Azimuth, req.Elevation, req.Zoom)
	s.writeStatus(w)
}

func (s *Server) handleOrientation(w http.ResponseWriter, r *http.Request) {
	var req OrientationRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.Azimuth == nil || req.Elevation == nil {
		http.Error(w, "azimuth and elevation are required", http.StatusBadRequest)
		return
	}
	s.scope.SetOrientation(*req.Azimuth, *req.Elevation)
	s.writeStatus(w)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.Zoom == nil {
		http.Error(w, "zoom is required", http.StatusBadRequest)
		return
	}
	s.scope.SetZoom(*req.Zoom)
	s.writeStatus(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.scope.Reset()
	s.writeStatus(w)
}

func (s *Server) handleInteresting(w http.ResponseWriter, r *http.Request) {
	if s.interest == nil {
		http.Error(w, "assistant disabled", http.StatusNotFound)
		return
	}
	var req InterestingRequest
	if !decodePost(w, r, &req) {
		return
	}
	s.interest.SetInteresting(req.Objects)
	s.log.Info("objects of interest: %v", s.interest.Interesting())
	s.writeStatus(w)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeStatus(w)
}

// Status returns the current telescope status.
func (s *Server) Status() Status {
	snap := s.scope.Snapshot()
	res := s.scope.Resolution()
	loc := s.scope.Location()

	st := Status{
		Azimuth:      snap.Orientation.Azimuth,
		Elevation:    snap.Orientation.Elevation,
		AzimuthDeg:   astro.RadToDeg0360(snap.Orientation.Azimuth),
		ElevationDeg: astro.RadToDeg(snap.Orientation.Elevation),
		Zoom:         snap.Zoom,
		FOVX:         snap.FOV.X,
		FOVY:         snap.FOV.Y,
		Width:        res.Width,
		Height:       res.Height,
		Latitude:     loc.LatDeg,
		Longitude:    loc.LonDeg,
		Revision:     snap.Revision,
	}
	if s.interest != nil {
		st.Interesting = s.interest.Interesting()
	}
	if s.stats != nil {
		ps := s.stats()
		st.Frames, st.Overruns = ps.Frames, ps.Overruns
	}
	return st
}

func (s *Server) writeStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Status()); err != nil {
		s.log.Warn("write status: %v", err)
	}
}

// decodePost enforces POST and decodes a JSON body into v, answering 4xx
// itself on failure.
func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}
