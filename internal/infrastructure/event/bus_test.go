package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/shared"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func newStubEvent(eventType string) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New(), uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	types    []string
	received []string
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, evt.EventType())
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestPublishDispatchesToSubscribedHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"task.created"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("task.created")))
	require.NoError(t, bus.Publish(context.Background(), newStubEvent("task.archived")))

	assert.Equal(t, []string{"task.created"}, handler.received)
}

func TestWildcardHandlerReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newStubEvent("task.created"),
		newStubEvent("client.retired"),
	))

	assert.Equal(t, []string{"task.created", "client.retired"}, handler.received)
}

func TestHandlerErrorDoesNotStopDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"task.created"}, err: errors.New("db down")}
	healthy := &recordingHandler{types: []string{"task.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("task.created")))
	assert.Len(t, healthy.received, 1)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"task.created"}, panics: true}
	healthy := &recordingHandler{types: []string{"task.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("task.created")))
	assert.Len(t, healthy.received, 1)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"task.created"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("task.created")))
	assert.Empty(t, handler.received)
}
