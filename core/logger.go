package core

// Logger is any service that can log messages and report errors.
// Implementations may inspect args for well-known types (eg. a user.User sets
// the reporting person).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
