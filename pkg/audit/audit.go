// Package audit records realm events. Writers are created per request and
// never surface sink failures to the caller.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"realmgate/pkg/realms"
)

// Event types emitted by the realm sub-resources.
const (
	EventLogout      = "LOGOUT"
	EventViewAccount = "VIEW_ACCOUNT"
)

// ClientConnection describes the caller of the current request.
type ClientConnection struct {
	RemoteAddr string
	UserAgent  string
}

type Event struct {
	ID        string
	Realm     string
	Type      string
	ClientID  string
	Subject   string
	IPAddress string
	Error     string
	Details   map[string]string
	Time      time.Time
}

// Sink persists events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Manager hands out request scoped writers sharing one sink.
type Manager struct {
	sink Sink
	log  *zap.SugaredLogger
}

func NewManager(sink Sink, log *zap.SugaredLogger) *Manager {
	return &Manager{sink: sink, log: log}
}

// CreateWriter returns a new writer bound to realm and conn.
func (m *Manager) CreateWriter(realm *realms.Realm, conn ClientConnection) *Writer {
	return &Writer{realm: realm.Name, conn: conn, sink: m.sink, log: m.log}
}

// Writer accumulates client and user context for the events of one request.
// It is not safe for concurrent use.
type Writer struct {
	realm    string
	conn     ClientConnection
	sink     Sink
	log      *zap.SugaredLogger
	clientID string
	subject  string
}

func (w *Writer) Realm() string { return w.realm }

func (w *Writer) Client(clientID string) *Writer {
	w.clientID = clientID
	return w
}

func (w *Writer) User(subject string) *Writer {
	w.subject = subject
	return w
}

func (w *Writer) Success(ctx context.Context, eventType string, details map[string]string) {
	w.emit(ctx, eventType, "", details)
}

func (w *Writer) Error(ctx context.Context, eventType, reason string) {
	w.emit(ctx, eventType, reason, nil)
}

func (w *Writer) emit(ctx context.Context, eventType, reason string, details map[string]string) {
	ev := Event{
		ID:        uuid.NewString(),
		Realm:     w.realm,
		Type:      eventType,
		ClientID:  w.clientID,
		Subject:   w.subject,
		IPAddress: w.conn.RemoteAddr,
		Error:     reason,
		Details:   details,
		Time:      time.Now().UTC(),
	}
	if err := w.sink.Write(ctx, ev); err != nil {
		w.log.Warnw("audit write failed", "realm", w.realm, "event", eventType, "err", err)
	}
}

// LogSink writes events to the structured log. Used when no database is
// configured.
type LogSink struct {
	Log *zap.SugaredLogger
}

func (s LogSink) Write(_ context.Context, ev Event) error {
	s.Log.Infow("audit",
		"id", ev.ID, "realm", ev.Realm, "type", ev.Type, "client_id", ev.ClientID,
		"subject", ev.Subject, "ip", ev.IPAddress, "error", ev.Error, "details", ev.Details)
	return nil
}
