package core

// Person identifies whom a log entry is about. Loggers that support it attach it to the report.
type Person struct {
	ID       string
	Username string
	Email    string
}

// Logger is any service that can log.
// expected args: error, map[string]interface{}, Person
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
