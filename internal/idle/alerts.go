package idle

import (
	"sync"
	"time"
)

// Severity of an alert banner.
type Severity int

const (
	Warning Severity = iota
	Danger
)

func (s Severity) String() string {
	if s == Danger {
		return "danger"
	}
	return "warning"
}

// Alert is a condition reported by the surrounding application that keeps
// the radiator out of idle mode while active.
type Alert struct {
	Key      string
	Severity Severity
	Message  string
	RaisedAt time.Time
}

// Alerts is the board of active alert conditions, keyed so the same
// condition raised twice is counted once.
type Alerts struct {
	mu    sync.Mutex
	order []string
	items map[string]Alert
	now   func() time.Time
}

// NewAlerts creates an empty alert board.
func NewAlerts() *Alerts {
	return &Alerts{
		items: make(map[string]Alert),
		now:   time.Now,
	}
}

// Raise activates (or updates) the alert with the given key.
func (a *Alerts) Raise(key string, sev Severity, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	existing, ok := a.items[key]
	if !ok {
		a.order = append(a.order, key)
		existing.RaisedAt = a.now()
	}
	a.items[key] = Alert{Key: key, Severity: sev, Message: message, RaisedAt: existing.RaisedAt}
}

// Resolve clears the alert with the given key. Unknown keys are ignored.
func (a *Alerts) Resolve(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.items[key]; !ok {
		return
	}
	delete(a.items, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of active alerts.
func (a *Alerts) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// List returns the active alerts in the order they were first raised.
func (a *Alerts) List() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Alert, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.items[k])
	}
	return out
}
