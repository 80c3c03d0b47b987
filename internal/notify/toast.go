// Package notify is the process-wide toast queue. Entries self-expire on
// independent timers; a duration of 0 means sticky. Subscribers get a
// snapshot ordered by insertion, which doubles as the stacking order.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

const (
	ErrorDurationMS   = 8000
	DefaultDurationMS = 6000
)

type Toast struct {
	ID       string
	Message  string
	Severity Severity
	Title    string
	Duration int
	Open     bool
}

type Center struct {
	mu      sync.Mutex
	toasts  []Toast
	timers  map[string]*time.Timer
	subs    map[int]func([]Toast)
	nextSub int
}

func NewCenter() *Center {
	return &Center{
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]func([]Toast)),
	}
}

func (c *Center) Show(message string, severity Severity, title string, durationMS int) string {
	toast := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
		Title:    title,
		Duration: durationMS,
		Open:     true,
	}

	c.mu.Lock()
	c.toasts = append(c.toasts, toast)
	if durationMS > 0 {
		c.timers[toast.ID] = time.AfterFunc(time.Duration(durationMS)*time.Millisecond, func() {
			c.Dismiss(toast.ID)
		})
	}
	c.mu.Unlock()

	c.publish()
	return toast.ID
}

func (c *Center) Error(message string) {
	c.Show(message, SeverityError, "", ErrorDurationMS)
}

func (c *Center) Success(message string) {
	c.Show(message, SeveritySuccess, "", DefaultDurationMS)
}

func (c *Center) Info(message string) {
	c.Show(message, SeverityInfo, "", DefaultDurationMS)
}

func (c *Center) Warning(message string) {
	c.Show(message, SeverityWarning, "", DefaultDurationMS)
}

func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, toast := range c.toasts {
		if toast.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.publish()
}

func (c *Center) Snapshot() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]Toast, len(c.toasts))
	copy(snapshot, c.toasts)
	return snapshot
}

func (c *Center) Subscribe(fn func([]Toast)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.subs = make(map[int]func([]Toast))
}

func (c *Center) publish() {
	c.mu.Lock()
	snapshot := make([]Toast, len(c.toasts))
	copy(snapshot, c.toasts)
	subs := make([]func([]Toast), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
