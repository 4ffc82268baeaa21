package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/rider-gps/internal/storage"
	"github.com/example/rider-gps/internal/stream"
)

type Server struct {
	logger    *slog.Logger
	store     storage.LocationStore
	registry  *stream.Registry
	publisher stream.Publisher
	upgrader  websocket.Upgrader
	mux       *mux.Router
}

func NewServer(logger *slog.Logger, store storage.LocationStore, registry *stream.Registry, publisher stream.Publisher) *Server {
	s := &Server{
		logger:    logger,
		store:     store,
		registry:  registry,
		publisher: publisher,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mux:       mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/ws/rider_location", s.handleRiderLocationWS)
	s.mux.HandleFunc("/api/v1/riders/{rider_id}/location", s.handleGetRiderLocation).Methods("GET")
	s.mux.HandleFunc("/api/v1/riders/{rider_id}/connection", s.handleGetRiderConnection).Methods("GET")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// handleRiderLocationWS upgrades the connection and runs the session
// loop on this handler's goroutine until the client goes away.
func (s *Server) handleRiderLocationWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	sess := stream.NewSession(conn, s.store, s.registry, s.publisher, s.logger)
	s.logger.Info("rider connection accepted", "session_id", sess.ID(), "remote_addr", r.RemoteAddr)
	sess.Run(r.Context())
}

func (s *Server) handleGetRiderLocation(w http.ResponseWriter, r *http.Request) {
	riderID := mux.Vars(r)["rider_id"]
	rec, err := s.store.Get(r.Context(), riderID)
	if err != nil {
		s.logger.Error("location read failed", "rider_id", riderID, "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if rec == nil {
		http.Error(w, "no location for rider", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// handleGetRiderConnection reports whether the rider currently has a
// live streaming session; the hook other subsystems use before pushing.
func (s *Server) handleGetRiderConnection(w http.ResponseWriter, r *http.Request) {
	riderID := mux.Vars(r)["rider_id"]
	sess, ok := s.registry.Get(riderID)
	resp := map[string]any{"rider_id": riderID, "connected": ok}
	if ok {
		resp["session_id"] = sess.ID()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
