// Package notify carries reminder messages out of the process. Channels
// implement the Notifier contract; delivery failures are swallowed by the
// caller and surfaced through the toast hub instead.
package notify

import (
	"go.uber.org/zap"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier is the outbound notification contract.
type Notifier interface {
	// RequestPermission reports whether the channel may deliver at all
	// (unconfigured or disabled channels answer denied).
	RequestPermission() Permission
	// Show delivers a single notification, fire-and-forget.
	Show(title, body string) error
}

// Toaster is the transient in-app message contract.
type Toaster interface {
	Show(message string)
}

// MultiNotifier fans a notification out to every granted channel.
type MultiNotifier struct {
	channels []Notifier
}

func NewMultiNotifier(channels ...Notifier) *MultiNotifier {
	return &MultiNotifier{channels: channels}
}

// RequestPermission is granted when at least one channel is available.
func (m *MultiNotifier) RequestPermission() Permission {
	for _, ch := range m.channels {
		if ch.RequestPermission() == PermissionGranted {
			return PermissionGranted
		}
	}
	return PermissionDenied
}

// Show delivers on every granted channel and returns the first error.
func (m *MultiNotifier) Show(title, body string) error {
	var firstErr error
	for _, ch := range m.channels {
		if ch.RequestPermission() != PermissionGranted {
			continue
		}
		if err := ch.Show(title, body); err != nil {
			zap.L().Warn("notification channel failed",
				zap.String("title", title), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
