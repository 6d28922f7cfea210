package engine

import "log"

// Notifier surfaces user-visible messages: precondition violations
// that abort an action, and control gained/lost announcements.
type Notifier interface {
	Notify(message string)
}

// LogNotifier writes notifications to the process log. The default
// when no UI is attached (tests, headless clients).
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Printf("notice: %s", message)
}
