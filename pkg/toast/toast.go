package toast

// EventName is the wire op name for toasts.
const EventName = "toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Emitter delivers a named event to the browser. Server sessions implement it.
type Emitter interface {
	Emit(name string, data map[string]string)
}

// Show displays a toast notification to the user.
//
// The client receives an op with the level and the message as its value.
func Show(e Emitter, level Type, message string) {
	if e == nil || message == "" {
		return
	}
	e.Emit(EventName, map[string]string{
		"level":   string(level),
		"message": message,
	})
}

// Success shows a success toast.
//
//	toast.Success(sess, "Added to cart")
func Success(e Emitter, message string) {
	Show(e, TypeSuccess, message)
}

// Error shows an error toast.
func Error(e Emitter, message string) {
	Show(e, TypeError, message)
}

// Warning shows a warning toast.
func Warning(e Emitter, message string) {
	Show(e, TypeWarning, message)
}

// Info shows an info toast.
func Info(e Emitter, message string) {
	Show(e, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
//
//	toast.WithTitle(sess, toast.TypeSuccess, "Order placed", "We will email you when it ships.")
func WithTitle(e Emitter, level Type, title, message string) {
	if e == nil {
		return
	}
	e.Emit(EventName, map[string]string{
		"level":   string(level),
		"title":   title,
		"message": message,
	})
}
