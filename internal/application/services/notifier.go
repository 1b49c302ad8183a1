package services

import (
	"sync"
	"time"

	"github.com/taskboard/core/internal/domain/entities"
)

// DefaultNotificationTTL is how long a notification stays visible before it
// auto-clears.
const DefaultNotificationTTL = 3 * time.Second

// Notification is one ephemeral user-facing message.
type Notification struct {
	Message  string
	Severity entities.Severity
}

// NotificationCenter holds at most one visible notification. Publishing
// replaces whatever is currently shown; there is no queue.
type NotificationCenter struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  *Notification
	timer    *time.Timer
	onChange func(*Notification)
}

// NewNotificationCenter creates a center with the given visible duration.
// A non-positive ttl falls back to DefaultNotificationTTL.
func NewNotificationCenter(ttl time.Duration) *NotificationCenter {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationCenter{ttl: ttl}
}

// OnChange registers a callback invoked with the new notification on publish
// and with nil when the visible notification clears.
func (n *NotificationCenter) OnChange(fn func(*Notification)) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Publish replaces the visible notification and restarts the clear timer.
func (n *NotificationCenter) Publish(severity entities.Severity, message string) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	cur := &Notification{Message: message, Severity: severity}
	n.current = cur
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(cur) })
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(cur)
	}
}

// Current returns the visible notification, if any.
func (n *NotificationCenter) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// expire clears the notification only if it is still the visible one; a
// newer publish owns the slot and its own timer.
func (n *NotificationCenter) expire(expected *Notification) {
	n.mu.Lock()
	if n.current != expected {
		n.mu.Unlock()
		return
	}
	n.current = nil
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}
