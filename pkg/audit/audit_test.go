package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"realmgate/pkg/realms"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(ctx context.Context, ev Event) error {
	return m.Called(ctx, ev).Error(0)
}

func TestWriterEmitsEventWithContext(t *testing.T) {
	sink := new(mockSink)
	var got Event
	sink.On("Write", mock.Anything, mock.AnythingOfType("audit.Event")).
		Run(func(args mock.Arguments) { got = args.Get(1).(Event) }).
		Return(nil)

	m := NewManager(sink, zap.NewNop().Sugar())
	w := m.CreateWriter(realms.NewRealm("demo", ""), ClientConnection{RemoteAddr: "10.0.0.1"})
	w.Client("spa").User("user-1").Success(context.Background(), EventLogout, map[string]string{"k": "v"})

	sink.AssertExpectations(t)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "demo", got.Realm)
	assert.Equal(t, EventLogout, got.Type)
	assert.Equal(t, "spa", got.ClientID)
	assert.Equal(t, "user-1", got.Subject)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.Equal(t, "v", got.Details["k"])
	assert.False(t, got.Time.IsZero())
}

func TestWriterSwallowsSinkErrors(t *testing.T) {
	sink := new(mockSink)
	sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("db down"))

	w := NewManager(sink, zap.NewNop().Sugar()).CreateWriter(realms.NewRealm("demo", ""), ClientConnection{})
	require.NotPanics(t, func() { w.Error(context.Background(), EventViewAccount, "not_logged_in") })
	sink.AssertNumberOfCalls(t, "Write", 1)
}

func TestCreateWriterReturnsFreshWriters(t *testing.T) {
	m := NewManager(LogSink{Log: zap.NewNop().Sugar()}, zap.NewNop().Sugar())
	realm := realms.NewRealm("demo", "")

	a := m.CreateWriter(realm, ClientConnection{})
	b := m.CreateWriter(realm, ClientConnection{})
	assert.NotSame(t, a, b)

	a.Client("spa")
	assert.Empty(t, b.clientID)
}
