package response

import (
	"context"
	"testing"

	"github.com/argus-sec/argus/pkg/actions"
	"github.com/argus-sec/argus/pkg/actions/adminalert"
	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAction is a mock implementation of the actions.Action interface.
type MockAction struct {
	mock.Mock
}

func (m *MockAction) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAction) Execute(ctx context.Context, data map[string]interface{}) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func newTestResponder() (*Responder, *blocklist.BlockList) {
	bl := blocklist.New()
	dispatcher := actions.NewDispatcher(true)
	dispatcher.Register(adminalert.New(zerolog.Nop()))
	return NewResponder(bl, dispatcher, zerolog.Nop()), bl
}

func TestResponder_ActionDescriptions(t *testing.T) {
	responder, _ := newTestResponder()
	ctx := context.Background()

	assert.Equal(t, "logged for monitoring",
		responder.Respond(ctx, threat.LevelLow, "192.168.1.20"))
	assert.Equal(t, "rate limiting applied to 192.168.1.20",
		responder.Respond(ctx, threat.LevelMedium, "192.168.1.20"))
	assert.Equal(t, "192.168.1.20 temporarily blocked",
		responder.Respond(ctx, threat.LevelHigh, "192.168.1.20"))
	assert.Equal(t, "192.168.1.20 permanently blocked, admin alerted",
		responder.Respond(ctx, threat.LevelCritical, "192.168.1.20"))
}

func TestResponder_LowAndMediumNeverBlock(t *testing.T) {
	responder, bl := newTestResponder()
	ctx := context.Background()

	responder.Respond(ctx, threat.LevelLow, "10.0.0.1")
	responder.Respond(ctx, threat.LevelMedium, "10.0.0.2")

	assert.Equal(t, 0, bl.Len())
}

func TestResponder_HighAndCriticalBlock(t *testing.T) {
	responder, bl := newTestResponder()
	ctx := context.Background()

	responder.Respond(ctx, threat.LevelHigh, "10.0.0.3")
	responder.Respond(ctx, threat.LevelCritical, "10.0.0.4")

	assert.True(t, bl.Contains("10.0.0.3"))
	assert.True(t, bl.Contains("10.0.0.4"))
	assert.Equal(t, 2, bl.Len())
}

func TestResponder_BlockIsIdempotent(t *testing.T) {
	responder, bl := newTestResponder()
	ctx := context.Background()

	responder.Respond(ctx, threat.LevelHigh, "172.16.0.8")
	responder.Respond(ctx, threat.LevelHigh, "172.16.0.8")
	responder.Respond(ctx, threat.LevelCritical, "172.16.0.8")

	assert.Equal(t, 1, bl.Len(), "repeated responses for the same identifier keep exactly one entry")
}

func TestResponder_CriticalDispatchesAdminAlert(t *testing.T) {
	bl := blocklist.New()
	dispatcher := actions.NewDispatcher(true)

	alert := new(MockAction)
	alert.On("Name").Return("admin_alert")
	alert.On("Execute", mock.Anything, mock.MatchedBy(func(data map[string]interface{}) bool {
		return data["identifier"] == "172.16.0.9"
	})).Return(nil).Once()
	dispatcher.Register(alert)

	responder := NewResponder(bl, dispatcher, zerolog.Nop())
	responder.Respond(context.Background(), threat.LevelCritical, "172.16.0.9")

	alert.AssertExpectations(t)
}

func TestResponder_NilDispatcher(t *testing.T) {
	responder := NewResponder(blocklist.New(), nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		responder.Respond(context.Background(), threat.LevelCritical, "10.0.0.5")
	})
}
