package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"habitroom-backend/internal/model"
	"habitroom-backend/internal/store"
)

// fakeStore serves canned endpoints and records deactivations.
type fakeStore struct {
	mu          sync.Mutex
	endpoints   map[int64][]model.PushSubscription
	deactivated []int64
}

func (s *fakeStore) DB() *gorm.DB { return nil }

func (s *fakeStore) ListEnabledReminders(ctx context.Context) ([]store.ReminderEntry, error) {
	return nil, nil
}

func (s *fakeStore) ListActiveEndpoints(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	return s.endpoints[userID], nil
}

func (s *fakeStore) DeactivateEndpoint(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *fakeStore) InsertNotification(ctx context.Context, n *model.Notification) error {
	return nil
}

// mockSender answers a canned status (or error) per endpoint.
type mockSender struct {
	mu        sync.Mutex
	statuses  map[string]int
	errs      map[string]error
	calls     int
	lastTopic string
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	m.calls++
	m.lastTopic = options.Topic
	m.mu.Unlock()

	if err := m.errs[sub.Endpoint]; err != nil {
		return nil, err
	}
	status := m.statuses[sub.Endpoint]
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestDispatcher(st *fakeStore, sender Sender, batchSize int) *Dispatcher {
	d := NewDispatcher(st, &webpush.Options{TTL: 60}, zap.NewNop(), batchSize)
	d.sender = sender
	return d
}

func subFor(id, userID int64, endpoint string) model.PushSubscription {
	return model.PushSubscription{
		ID:       id,
		UserID:   userID,
		Endpoint: endpoint,
		P256DH:   "p256dh",
		Auth:     "auth",
		Active:   true,
	}
}

func TestSendToUser_NoEndpoints(t *testing.T) {
	st := &fakeStore{endpoints: map[int64][]model.PushSubscription{}}
	sender := &mockSender{}
	d := newTestDispatcher(st, sender, 10)

	sent, failed := d.SendToUser(context.Background(), 42, Payload{})

	assert.Zero(t, sent)
	assert.Zero(t, failed)
	assert.Zero(t, sender.callCount(), "no transport call may happen without endpoints")
}

func TestSendToUser_ClassifiesOutcomesPerEndpoint(t *testing.T) {
	st := &fakeStore{endpoints: map[int64][]model.PushSubscription{
		42: {
			subFor(1, 42, "https://push.example/ok"),
			subFor(2, 42, "https://push.example/gone"),
			subFor(3, 42, "https://push.example/flaky"),
		},
	}}
	sender := &mockSender{
		statuses: map[string]int{
			"https://push.example/ok":   http.StatusCreated,
			"https://push.example/gone": http.StatusGone,
		},
		errs: map[string]error{
			"https://push.example/flaky": errors.New("connection reset"),
		},
	}
	d := newTestDispatcher(st, sender, 10)

	sent, failed := d.SendToUser(context.Background(), 42, RoomOpeningPayload(7, "Morning Run", "", 15))

	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, failed)
	// Exactly the gone endpoint is deactivated; the transient one stays
	// active for the next attempt.
	assert.Equal(t, []int64{2}, st.deactivated)
}

func TestSendToUser_NotFoundAlsoDeactivates(t *testing.T) {
	st := &fakeStore{endpoints: map[int64][]model.PushSubscription{
		42: {subFor(5, 42, "https://push.example/stale")},
	}}
	sender := &mockSender{statuses: map[string]int{"https://push.example/stale": http.StatusNotFound}}
	d := newTestDispatcher(st, sender, 10)

	sent, failed := d.SendToUser(context.Background(), 42, Payload{})

	assert.Zero(t, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{5}, st.deactivated)
}

func TestSendToUser_SetsDedupTagAsTopic(t *testing.T) {
	st := &fakeStore{endpoints: map[int64][]model.PushSubscription{
		42: {subFor(1, 42, "https://push.example/ok")},
	}}
	sender := &mockSender{}
	d := newTestDispatcher(st, sender, 10)

	payload := RoomOpeningPayload(7, "Morning Run", "🏃", 15)
	sent, _ := d.SendToUser(context.Background(), 42, payload)

	require.Equal(t, 1, sent)
	assert.Equal(t, "room-opening-7-15", sender.lastTopic)
}

func TestSendToUsers_SumsCountsAcrossBatches(t *testing.T) {
	st := &fakeStore{endpoints: map[int64][]model.PushSubscription{
		1: {subFor(1, 1, "https://push.example/a")},
		2: {subFor(2, 2, "https://push.example/b")},
		3: {subFor(3, 3, "https://push.example/c")},
	}}
	sender := &mockSender{statuses: map[string]int{
		"https://push.example/c": http.StatusInternalServerError,
	}}
	// Batch size 2 forces two rounds for three users.
	d := newTestDispatcher(st, sender, 2)

	sent, failed := d.SendToUsers(context.Background(), []int64{1, 2, 3}, Payload{})

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 3, sender.callCount())
}

func TestRoomOpeningPayload(t *testing.T) {
	payload := RoomOpeningPayload(7, "Morning Run", "🏃", 15)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "room_opening", decoded["type"])
	assert.Equal(t, "🏃 Morning Run", decoded["title"])
	assert.Equal(t, "Morning Run opens in 15 minutes", decoded["body"])
	assert.Equal(t, "room-opening-7-15", decoded["dedupTag"])

	data := decoded["data"].(map[string]any)
	assert.Equal(t, float64(7), data["roomId"])
	assert.Equal(t, float64(15), data["minutesBefore"])
}

func TestRoomOpeningPayload_ZeroOffset(t *testing.T) {
	payload := RoomOpeningPayload(7, "Morning Run", "", 0)
	assert.Equal(t, "Morning Run is opening now", payload.Body)
	assert.Equal(t, "Morning Run", payload.Title)
}
