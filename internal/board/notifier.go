package board

// Notifier surfaces short-lived, user-visible outcome messages. Failures are
// never fatal to the session; a failed mutation degrades to "retry manually".
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Failure(string) {}
