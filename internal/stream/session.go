package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/rider-gps/internal/ingest"
	"github.com/example/rider-gps/internal/models"
	"github.com/example/rider-gps/internal/observability"
	"github.com/example/rider-gps/internal/storage"
)

// Conn is the subset of a websocket connection the session needs.
// *websocket.Conn satisfies it directly.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
}

// Publisher forwards an accepted update to a downstream stream, e.g.
// the Kafka topic mirrored into Redis by the consumer binary.
type Publisher interface {
	PublishUpdate(rec models.RiderLocation) error
}

// Session owns one rider connection: it runs the
// receive-validate-persist-acknowledge loop until the connection closes
// and keeps the registry pointing at itself for the rider it serves.
type Session struct {
	id        string
	conn      Conn
	store     storage.LocationStore
	registry  *Registry
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	riderID string // most recently persisted rider, loop goroutine only

	wmu sync.Mutex // serializes writes; Send may be called via the registry
}

func NewSession(conn Conn, store storage.LocationStore, registry *Registry, publisher Publisher, logger *slog.Logger) *Session {
	return &Session{
		id:        uuid.NewString(),
		conn:      conn,
		store:     store,
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Session) ID() string { return s.id }

// Send writes one JSON message to the client. Safe for concurrent use
// by external subsystems that looked the session up in the registry.
func (s *Session) Send(v any) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteJSON(v)
}

// Run blocks until the connection closes. Each inbound message gets
// exactly one acknowledgment; a failed iteration never ends the loop,
// only a read error does.
func (s *Session) Run(ctx context.Context) {
	observability.SessionsActive.Inc()
	defer observability.SessionsActive.Dec()

	if err := s.Send(models.Ack{Message: models.MsgConnected}); err != nil {
		s.logger.Warn("connection handshake failed", "session_id", s.id, "error", err)
		return
	}
	defer s.cleanup()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Info("connection closed", "session_id", s.id, "rider_id", s.riderID, "error", err)
			return
		}
		s.handleMessage(ctx, raw)
	}
}

func (s *Session) handleMessage(ctx context.Context, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			observability.UpdatesFailed.WithLabelValues("unexpected").Inc()
			s.logger.Error("session iteration panicked", "session_id", s.id, "error", fmt.Sprint(rec))
			s.sendFailure()
		}
	}()

	upd, err := ingest.ParseLocationUpdate(raw)
	if err != nil {
		observability.UpdatesFailed.WithLabelValues("validation").Inc()
		s.logger.Warn("rejected location update", "session_id", s.id, "error", err)
		s.sendFailure()
		return
	}

	rec := upd.Record(s.now().UTC())
	timer := prometheus.NewTimer(observability.UpsertDuration)
	err = s.store.Upsert(ctx, rec)
	timer.ObserveDuration()
	if err != nil {
		observability.UpdatesFailed.WithLabelValues("store").Inc()
		s.logger.Error("location upsert failed", "session_id", s.id, "rider_id", upd.RiderID, "error", err)
		s.sendFailure()
		return
	}

	s.registry.Put(upd.RiderID, s)
	s.riderID = upd.RiderID

	if err := s.Send(models.Ack{Message: models.MsgReceived}); err != nil {
		s.logger.Warn("ack write failed", "session_id", s.id, "rider_id", upd.RiderID, "error", err)
		return
	}
	observability.UpdatesReceived.Inc()

	if s.publisher != nil {
		// best effort; the durable row is already committed
		if err := s.publisher.PublishUpdate(rec); err != nil {
			s.logger.Warn("update publish failed", "session_id", s.id, "rider_id", upd.RiderID, "error", err)
		}
	}
}

func (s *Session) sendFailure() {
	if err := s.Send(models.Ack{Message: models.MsgFailed}); err != nil {
		s.logger.Info("failure ack not delivered", "session_id", s.id, "error", err)
	}
}

func (s *Session) cleanup() {
	if s.riderID == "" {
		return
	}
	if s.registry.RemoveIfCurrent(s.riderID, s) {
		s.logger.Info("rider unregistered", "session_id", s.id, "rider_id", s.riderID)
	}
}
