package services

type notifier interface {
	Error(message string)
	Success(message string)
	Info(message string)
}
