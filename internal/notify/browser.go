package notify

import (
	"context"
	"sync"

	"github.com/jade/nuestro27/internal/model"
)

// maxQueued bounds notifications waiting for the page to collect them.
const maxQueued = 20

// Browser is the Web Notification API of the page, seen from the server.
// The page reports the permission state and collects queued notifications.
type Browser struct {
	mu         sync.Mutex
	supported  bool
	permission Permission
	waiters    []chan Permission
	queue      []model.Notification
}

// NewBrowser creates a browser platform with no answer reported yet.
func NewBrowser() *Browser {
	return &Browser{supported: true, permission: PermissionDefault}
}

func (b *Browser) Supported() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supported
}

func (b *Browser) Permission() Permission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.permission
}

// Report records what the page found: whether notifications exist and the
// current permission. Pending RequestPermission calls are released.
func (b *Browser) Report(p Permission, supported bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.supported = supported
	b.permission = p
	for _, ch := range b.waiters {
		ch <- p
	}
	b.waiters = nil
}

// Prompting reports whether a permission request awaits the page's answer.
func (b *Browser) Prompting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters) > 0
}

// RequestPermission blocks until the page reports the user's answer.
func (b *Browser) RequestPermission(ctx context.Context) (Permission, error) {
	ch := make(chan Permission, 1)
	b.mu.Lock()
	b.waiters = append(b.waiters, ch)
	b.mu.Unlock()

	select {
	case p := <-ch:
		return p, nil
	case <-ctx.Done():
		b.mu.Lock()
		for i, w := range b.waiters {
			if w == ch {
				b.waiters = append(b.waiters[:i], b.waiters[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		return PermissionDefault, ctx.Err()
	}
}

// Show queues n for the page. The oldest entries are dropped when full.
func (b *Browser) Show(n model.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, n)
	if len(b.queue) > maxQueued {
		b.queue = b.queue[len(b.queue)-maxQueued:]
	}
	return nil
}

// Drain returns and clears the queued notifications.
func (b *Browser) Drain() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}
