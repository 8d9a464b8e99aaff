package core

// Logger is any service that can record what the tool did.
// expected args: error, map[string]interface{} (fields), the authenticated principal.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
