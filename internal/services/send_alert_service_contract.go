package services

// SendAlertServiceContract delivers a formatted alert message to some channel.
// Callers send exactly once per triggered condition; implementations never retry.
type SendAlertServiceContract interface {
	Send(message string)
}
