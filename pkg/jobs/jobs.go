// Package jobs defines the background work published to RabbitMQ and the
// worker-side handler that executes it.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/domain/storage"
	"github.com/oksasatya/go-places-api/pkg/mailer"
	"github.com/oksasatya/go-places-api/pkg/metrics"
)

const (
	TypeFileCleanup  = "file.cleanup"
	TypeWelcomeEmail = "email.welcome"
)

// Job is the JSON message body on the jobs queue.
type Job struct {
	Type  string           `json:"type"`
	Path  string           `json:"path,omitempty"`
	Email *mailer.EmailJob `json:"email,omitempty"`
}

func FileCleanup(path string) Job { return Job{Type: TypeFileCleanup, Path: path} }

func WelcomeEmail(to, name, appName string) Job {
	return Job{Type: TypeWelcomeEmail, Email: &mailer.EmailJob{
		To:       to,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": name, "AppName": appName},
	}}
}

// ErrPermanent marks a job that must not be redelivered.
var ErrPermanent = errors.New("permanent job failure")

// Handler executes jobs. Mail may be nil when sending is disabled; welcome
// jobs are then acknowledged without sending.
type Handler struct {
	Files  storage.FileStore
	Mail   mailer.Sender
	Logger *logrus.Logger
}

// Handle decodes and runs one message body. Errors wrapping ErrPermanent
// should be dropped; any other error is worth a retry.
func (h *Handler) Handle(ctx context.Context, body []byte) (err error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %v: %w", err, ErrPermanent)
	}
	defer func() { metrics.Jobs.WithLabelValues(job.Type, metrics.Outcome(err)).Inc() }()

	switch job.Type {
	case TypeFileCleanup:
		return h.cleanup(ctx, job.Path)
	case TypeWelcomeEmail:
		return h.welcome(ctx, job.Email)
	default:
		return fmt.Errorf("unknown job type %q: %w", job.Type, ErrPermanent)
	}
}

func (h *Handler) cleanup(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("cleanup job without path: %w", ErrPermanent)
	}
	if h.Files == nil {
		return fmt.Errorf("no file store configured: %w", ErrPermanent)
	}
	err := h.Files.Remove(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil && h.Logger != nil {
		h.Logger.WithField("path", path).Info("orphaned file removed")
	}
	return err
}

func (h *Handler) welcome(ctx context.Context, job *mailer.EmailJob) error {
	if job == nil || job.To == "" {
		return fmt.Errorf("welcome job without recipient: %w", ErrPermanent)
	}
	if h.Mail == nil {
		return nil
	}
	if err := mailer.Prepare(job); err != nil {
		return fmt.Errorf("render: %v: %w", err, ErrPermanent)
	}
	return h.Mail.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}
