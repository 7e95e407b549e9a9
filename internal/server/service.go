// Package server exposes polygon and collision queries over HTTP and a
// WebSocket stream.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/core/walls"
	"chosenoffset.com/sightline/internal/world/maploader"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Service serves queries against a live edge store
type Service struct {
	addr     string
	name     string
	store    *walls.Store
	logger   *slog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewService creates a service for the named scene. A nil logger uses
// slog.Default.
func NewService(addr, name string, store *walls.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		addr:   addr,
		name:   name,
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/polygon", s.handlePolygon).Methods(http.MethodPost)
	router.HandleFunc("/collision", s.handleCollision).Methods(http.MethodPost)
	router.HandleFunc("/scene", s.handleScene).Methods(http.MethodGet)
	router.HandleFunc("/walls", s.handleAddWalls).Methods(http.MethodPost)
	router.HandleFunc("/walls/{id:[a-zA-Z0-9._\\-]+}", s.handleRemoveWall).Methods(http.MethodDelete)
	router.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	s.router = router

	return s
}

// Handler returns the HTTP handler
func (s *Service) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the configured address
func (s *Service) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.addr, "scene", s.name)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, shadows.ErrInvalidSense),
		errors.Is(err, shadows.ErrInvalidMode):
		status = http.StatusBadRequest
	case errors.Is(err, walls.ErrDuplicateEdge):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}
	return nil
}

// polygon answers a single polygon request
func (s *Service) polygon(req PolygonRequest) (PolygonResponse, error) {
	cfg, err := req.Config()
	if err != nil {
		return PolygonResponse{}, err
	}
	res, err := shadows.Compute(s.store.Snapshot(), req.Origin, cfg)
	if err != nil {
		return PolygonResponse{}, err
	}
	return NewPolygonResponse(res), nil
}

func (s *Service) handlePolygon(w http.ResponseWriter, r *http.Request) {
	var req PolygonRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.polygon(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleCollision(w http.ResponseWriter, r *http.Request) {
	var req CollisionRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	cc, err := req.Config()
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := shadows.TestCollision(s.store.Snapshot(), req.Origin, req.Destination, cc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewCollisionResponse(res))
}

func (s *Service) handleScene(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SceneResponse{
		Name:      s.name,
		SceneRect: s.store.SceneRect(),
		InnerRect: s.store.InnerRect(),
		Walls:     s.store.Edges(),
	})
}

func (s *Service) handleAddWalls(w http.ResponseWriter, r *http.Request) {
	var data []maploader.WallData
	if err := decode(w, r, &data); err != nil {
		s.writeError(w, err)
		return
	}
	edges := make([]*walls.Edge, 0, len(data))
	for _, wd := range data {
		if wd.Type.IsBoundary() {
			s.writeError(w, errors.Wrap(ErrBadRequest, "boundary edges cannot be added"))
			return
		}
		edges = append(edges, wd.Edge())
	}
	if err := s.store.Add(edges...); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"walls": s.store.Len()})
}

func (s *Service) handleRemoveWall(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Remove(id) {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "wall not found: " + id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWebsocket answers each polygon request read from the socket with a
// polygon response or an error message
func (s *Service) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer c.Close()
	c.SetReadLimit(maxBodyBytes)

	for {
		var req PolygonRequest
		if err := c.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg interface{}
		if resp, err := s.polygon(req); err != nil {
			msg = ErrorResponse{Error: err.Error()}
		} else {
			msg = resp
		}
		if err := c.WriteJSON(msg); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
