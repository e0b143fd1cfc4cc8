package sync

// Level classifies a status notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notifier receives the transient status notifications the engine emits
// around network operations (info while in flight, success/error after).
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}
