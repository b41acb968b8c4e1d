// Package notify delivers user-visible notifications raised by the store
// and the login flow.
package notify

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/theme"
)

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n model.Notification)
}

// New builds a notification stamped with the current time.
func New(level model.NotificationLevel, title, message string) model.Notification {
	return model.Notification{
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Printer writes one styled line per notification.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Notify(n model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	badge := theme.LevelStyle(n.Level).Render(n.Title)
	line := badge
	if n.Message != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", n.Message)
	}
	fmt.Fprintln(p.w, line)
}

// Log forwards notifications to the standard logger.
type Log struct{}

func (Log) Notify(n model.Notification) {
	log.Printf("[notify] %s: %s %s", n.Level, n.Title, n.Message)
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(n model.Notification) {
	for _, to := range m {
		to.Notify(n)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(model.Notification) {}

// Recorder keeps every notification in memory. It is meant for tests.
type Recorder struct {
	mu   sync.Mutex
	seen []model.Notification
}

func (r *Recorder) Notify(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.seen...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (model.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return model.Notification{}, false
	}
	return r.seen[len(r.seen)-1], true
}

// Titles returns the recorded titles in order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.seen))
	for i, n := range r.seen {
		titles[i] = n.Title
	}
	return titles
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}
