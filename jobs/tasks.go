package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail greets a freshly registered user.
	TaskTypeWelcomeEmail = "auth:welcome_email"
	// TaskTypePasswordResetEmail delivers a password reset notice.
	TaskTypePasswordResetEmail = "auth:password_reset_email"
)

// WelcomeEmailPayload describes the information required for a welcome email.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// PasswordResetEmailPayload carries the recipient of a reset notice.
type PasswordResetEmailPayload struct {
	To string `json:"to"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// NewPasswordResetEmailTask constructs an Asynq task.
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePasswordResetEmail, data), nil
}
