package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService   = "service"
	FieldQueue     = "queue"
	FieldMessageID = "message_id"
	FieldKey       = "object_key"
	FieldSender    = "sender"
	FieldSubject   = "subject"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldError     = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Queue returns a slog attribute for the queue name.
func Queue(name string) slog.Attr {
	return slog.String(FieldQueue, name)
}

// MessageID returns a slog attribute for a queue message ID.
func MessageID(id string) slog.Attr {
	return slog.String(FieldMessageID, id)
}

// ObjectKey returns a slog attribute for an archive object key.
func ObjectKey(key string) slog.Attr {
	return slog.String(FieldKey, key)
}

// Sender returns a slog attribute for the event sender.
func Sender(sender string) slog.Attr {
	return slog.String(FieldSender, sender)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
