package view

// ToastLevel selects the toast styling.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

func Success(msg string) Toast { return Toast{Level: ToastSuccess, Message: msg} }

func Error(msg string) Toast { return Toast{Level: ToastError, Message: msg} }

func Info(msg string) Toast { return Toast{Level: ToastInfo, Message: msg} }
