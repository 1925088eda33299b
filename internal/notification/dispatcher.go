package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"habitroom-backend/internal/model"
	"habitroom-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Dispatcher fans a payload out to the push endpoints of a user. Partial
// failure is a normal outcome: it reports counts and never returns an error.
type Dispatcher struct {
	store     store.Store
	webpush   *webpush.Options
	sender    Sender
	log       *zap.Logger
	batchSize int
}

// NewDispatcher creates a dispatcher using the real web push sender.
func NewDispatcher(s store.Store, webpushOptions *webpush.Options, log *zap.Logger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Dispatcher{
		store:     s,
		webpush:   webpushOptions,
		sender:    &WebPushSender{},
		log:       log,
		batchSize: batchSize,
	}
}

// SendToUser delivers the payload to every active endpoint of the user,
// concurrently and independently of each other's outcome. Endpoints the push
// service reports gone are deactivated; transient failures leave the endpoint
// active for the next attempt. Zero endpoints is not an error.
func (d *Dispatcher) SendToUser(ctx context.Context, userID int64, payload Payload) (sent, failed int) {
	subs, err := d.store.ListActiveEndpoints(ctx, userID)
	if err != nil {
		d.log.Error("endpoint lookup failed", zap.Error(err), zap.Int64("user_id", userID))
		return 0, 0
	}
	if len(subs) == 0 {
		return 0, 0
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.log.Error("payload marshal failed", zap.Error(err))
		return 0, len(subs)
	}

	// Per-send copy of the options so the dedup tag rides along as the
	// webpush topic.
	opts := *d.webpush
	opts.Topic = payload.DedupTag

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.PushSubscription) {
			defer wg.Done()
			ok := d.sendOne(ctx, sub, body, &opts)
			mu.Lock()
			if ok {
				sent++
			} else {
				failed++
			}
			mu.Unlock()
		}(sub)
	}
	wg.Wait()

	return sent, failed
}

// sendOne attempts delivery to a single endpoint and reports success.
func (d *Dispatcher) sendOne(ctx context.Context, sub model.PushSubscription, body []byte, opts *webpush.Options) bool {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := d.sender.Send(body, wpSub, opts)
	if err != nil {
		d.log.Warn("push delivery failed", zap.Error(err), zap.String("endpoint", sub.Endpoint))
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// The push service will never accept this endpoint again.
		d.log.Info("endpoint gone, deactivating",
			zap.String("endpoint", sub.Endpoint), zap.Int("status", resp.StatusCode))
		if err := d.store.DeactivateEndpoint(ctx, sub.ID); err != nil {
			d.log.Error("endpoint deactivation failed", zap.Error(err),
				zap.Int64("subscription_id", sub.ID))
		}
		return false
	default:
		d.log.Warn("push service rejected delivery",
			zap.String("endpoint", sub.Endpoint), zap.Int("status", resp.StatusCode))
		return false
	}
}

// SendToUsers delivers the same payload to many users in fixed-size batches
// to cap concurrent fan-out. Counts are summed across batches.
func (d *Dispatcher) SendToUsers(ctx context.Context, userIDs []int64, payload Payload) (sent, failed int) {
	for i := 0; i < len(userIDs); i += d.batchSize {
		end := i + d.batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}

		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, userID := range userIDs[i:end] {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				s, f := d.SendToUser(ctx, userID, payload)
				mu.Lock()
				sent += s
				failed += f
				mu.Unlock()
			}(userID)
		}
		wg.Wait()
	}
	return sent, failed
}
