package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"
)

type fakeFiles struct {
	removed []string
	err     error
}

func (f *fakeFiles) Save(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeFiles) Remove(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, path)
	return nil
}

type fakeMail struct {
	to, subject string
	err         error
}

func (m *fakeMail) Send(_ context.Context, to, subject, _, _ string) error {
	m.to, m.subject = to, subject
	return m.err
}

func encode(t *testing.T, j Job) []byte {
	t.Helper()
	b, err := json.Marshal(j)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestHandleFileCleanup(t *testing.T) {
	files := &fakeFiles{}
	h := &Handler{Files: files}
	if err := h.Handle(context.Background(), encode(t, FileCleanup("uploads/images/a.png"))); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(files.removed) != 1 || files.removed[0] != "uploads/images/a.png" {
		t.Fatalf("removed = %v", files.removed)
	}
}

func TestHandleFileCleanupMissingIsDone(t *testing.T) {
	h := &Handler{Files: &fakeFiles{err: fmt.Errorf("gone: %w", fs.ErrNotExist)}}
	if err := h.Handle(context.Background(), encode(t, FileCleanup("a.png"))); err != nil {
		t.Fatalf("missing file should be treated as cleaned: %v", err)
	}
}

func TestHandleFileCleanupTransientIsRetryable(t *testing.T) {
	h := &Handler{Files: &fakeFiles{err: errors.New("bucket timeout")}}
	err := h.Handle(context.Background(), encode(t, FileCleanup("a.png")))
	if err == nil || errors.Is(err, ErrPermanent) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestHandleWelcomeEmail(t *testing.T) {
	mail := &fakeMail{}
	h := &Handler{Mail: mail}
	if err := h.Handle(context.Background(), encode(t, WelcomeEmail("ada@example.com", "Ada", "Places"))); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if mail.to != "ada@example.com" || mail.subject != "Welcome to Places" {
		t.Fatalf("sent to=%q subject=%q", mail.to, mail.subject)
	}
}

func TestHandleWelcomeWithoutSenderIsAcked(t *testing.T) {
	h := &Handler{}
	if err := h.Handle(context.Background(), encode(t, WelcomeEmail("ada@example.com", "Ada", "Places"))); err != nil {
		t.Fatalf("expected ack when mail disabled: %v", err)
	}
}

func TestHandlePermanentFailures(t *testing.T) {
	h := &Handler{Files: &fakeFiles{}}
	for _, body := range [][]byte{
		[]byte("not json"),
		encode(t, Job{Type: "nope"}),
		encode(t, Job{Type: TypeFileCleanup}),
		encode(t, Job{Type: TypeWelcomeEmail}),
	} {
		if err := h.Handle(context.Background(), body); !errors.Is(err, ErrPermanent) {
			t.Fatalf("%s: expected permanent, got %v", body, err)
		}
	}
}
