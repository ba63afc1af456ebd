package http

// HTTPLogger is the printf-style leveled logger the server writes to.
// logging.Logger satisfies it.
type HTTPLogger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Success(msg string, args ...interface{})
}
