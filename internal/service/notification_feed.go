package service

import (
	"sort"
	"sync"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

// NotificationFeed keeps the latest notification per category. A new
// notification replaces the previous one of its category instead of stacking.
type NotificationFeed struct {
	mu     sync.Mutex
	latest map[string]models.Notification
}

// NewNotificationFeed constructs an empty feed.
func NewNotificationFeed() *NotificationFeed {
	return &NotificationFeed{latest: make(map[string]models.Notification)}
}

// Push records n.
func (f *NotificationFeed) Push(n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest[n.Category] = n
}

// List returns the visible notifications, newest first.
func (f *NotificationFeed) List() []models.Notification {
	f.mu.Lock()
	out := make([]models.Notification, 0, len(f.latest))
	for _, n := range f.latest {
		out = append(out, n)
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Category < out[j].Category
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Ack dismisses the notification of category. It reports whether one was visible.
func (f *NotificationFeed) Ack(category string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.latest[category]; !ok {
		return false
	}
	delete(f.latest, category)
	return true
}
