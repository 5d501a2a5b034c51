package services

import (
	"sync"
	"time"
)

// DefaultNotificationTTL matches the banner display window on the client.
const DefaultNotificationTTL = 3 * time.Second

// XPNotification is the transient "+N XP" event shown after an award.
type XPNotification struct {
	UserID  string    `json:"user_id"`
	XP      int64     `json:"xp"`
	LevelUp bool      `json:"level_up"`
	At      time.Time `json:"at"`
}

// Notifier surfaces transient award notifications. Last-write-wins: a new
// Emit replaces whatever is currently displayed, and the current value
// auto-clears after the TTL. Subscribers (SSE sessions) get every emit.
type Notifier struct {
	ttl time.Duration

	mu      sync.Mutex
	current *XPNotification
	timer   *time.Timer
	subs    map[chan XPNotification]struct{}
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{
		ttl:  ttl,
		subs: make(map[chan XPNotification]struct{}),
	}
}

// Emit publishes a notification, replacing any visible one.
func (n *Notifier) Emit(userID string, xp int64, levelUp bool) {
	note := XPNotification{UserID: userID, XP: xp, LevelUp: levelUp, At: time.Now()}

	n.mu.Lock()
	n.current = &note
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.clearIf(&note) })

	for ch := range n.subs {
		select {
		case ch <- note:
		default:
			// Slow subscriber: drop rather than block the award path.
		}
	}
	n.mu.Unlock()
}

// clearIf expires a notification only if it is still the visible one, so a
// stale timer never wipes a newer emit.
func (n *Notifier) clearIf(note *XPNotification) {
	n.mu.Lock()
	if n.current == note {
		n.current = nil
	}
	n.mu.Unlock()
}

// Current returns the visible notification, or nil once it expired.
func (n *Notifier) Current() *XPNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	note := *n.current
	return &note
}

// Subscribe registers a channel for live notifications. The returned cancel
// must be called on session teardown.
func (n *Notifier) Subscribe() (<-chan XPNotification, func()) {
	ch := make(chan XPNotification, 8)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
	}
	return ch, cancel
}
