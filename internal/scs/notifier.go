package scs

import "context"

// Job is a best-effort side effect run after a durable local write.
// Name identifies the job in the audit log.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Notifier accepts side-effect jobs. Enqueue must not block the caller
// and must not report the job's outcome.
type Notifier interface {
	Enqueue(job Job)
}
