package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"travel-agency/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(channel string, message any) error {
	args := m.Called(channel, message)
	return args.Error(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	name   string
	err    error
	events []Event
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingNotifier) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

var testEvent = Event{Kind: "booking", ID: "b1", Title: "Gulmarg Tour", Summary: "Asha, 2 persons"}

func TestPubNub_PublishesToAdminChannel(t *testing.T) {
	publisher := &MockPublisher{}
	publisher.On("Publish", "admin-notifications", mock.MatchedBy(func(msg any) bool {
		m, ok := msg.(map[string]any)
		return ok && m["type"] == "booking_created" && m["id"] == "b1"
	})).Return(nil).Once()

	err := NewPubNub(publisher, "admin-notifications").Notify(context.Background(), testEvent)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestPubNub_BreakerOpensAfterFailures(t *testing.T) {
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("network"))

	n := NewPubNub(publisher, "admin")
	for i := 0; i < 5; i++ {
		assert.Error(t, n.Notify(context.Background(), testEvent))
	}

	assert.ErrorIs(t, n.Notify(context.Background(), testEvent), utils.ErrOpenState)
	publisher.AssertNumberOfCalls(t, "Publish", 5)
}

func TestTelegram_SendsText(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 42 && msg.Text == testEvent.Text()
	})).Return(nil).Once()

	require.NoError(t, NewTelegram(sender, 42).Notify(context.Background(), testEvent))
	sender.AssertExpectations(t)
}

func TestEvent_Text(t *testing.T) {
	assert.Equal(t, "New booking: Gulmarg Tour\nAsha, 2 persons", testEvent.Text())
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &recordingNotifier{name: "ok"}
	bad := &recordingNotifier{name: "bad", err: errors.New("down")}

	err := Multi{ok, bad}.Notify(context.Background(), testEvent)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: down")
	assert.Equal(t, 1, ok.Len())
	assert.Equal(t, 1, bad.Len())
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.Notify(context.Background(), testEvent))
}

func TestAsync_DeliversInBackground(t *testing.T) {
	next := &recordingNotifier{name: "rec", err: errors.New("ignored")}
	ctx, cancel := context.WithCancel(context.Background())

	err := NewAsync(next, time.Second, nil).Notify(ctx, testEvent)
	cancel()

	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return next.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), testEvent))
	assert.Equal(t, "nop", Nop{}.Name())
}
