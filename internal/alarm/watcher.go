package alarm

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/notifier"
)

// Source returns the current "HH:MM" to task name mapping.
type Source func() (map[string]string, error)

// Watcher polls the alarm mapping and notifies on an exact minute match.
// Without dedupe a match fires on every poll during that minute.
type Watcher struct {
	source   Source
	notifier notifier.Notifier
	interval time.Duration
	dedupe   bool
	now      func() time.Time

	lastFired string
}

type Option func(*Watcher)

func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithDedupe limits each alarm to one notification per minute.
func WithDedupe(dedupe bool) Option {
	return func(w *Watcher) {
		w.dedupe = dedupe
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		w.now = now
	}
}

func New(source Source, n notifier.Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		source:   source,
		notifier: n,
		interval: constants.DefaultAlarmPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Message formats the notification text for a task.
func Message(task string) string {
	return fmt.Sprintf("ALARM: Time for %s!", task)
}

// Tick performs one poll. It returns the task that fired, if any.
func (w *Watcher) Tick() (string, bool, error) {
	schedule, err := w.source()
	if err != nil {
		return "", false, fmt.Errorf("failed to load alarm schedule: %w", err)
	}

	now := w.now()
	key := now.Format(constants.TimeFormat)
	task, ok := schedule[key]
	if !ok {
		return "", false, nil
	}

	stamp := now.Format(constants.DateFormat) + " " + key
	if w.dedupe && w.lastFired == stamp {
		return "", false, nil
	}

	if err := w.notifier.Notify(Message(task)); err != nil {
		return task, false, fmt.Errorf("failed to deliver alarm for %s: %w", task, err)
	}
	w.lastFired = stamp
	logger.Info("Alarm fired", "task", task, "time", key)
	return task, true, nil
}

// Run polls until ctx is cancelled. Poll errors are logged and do not stop
// the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, _, err := w.Tick(); err != nil {
			logger.Warn("Alarm poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
