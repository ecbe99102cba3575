package application

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/domain/storage"
	"github.com/oksasatya/go-places-api/pkg/jobs"
	"github.com/oksasatya/go-places-api/pkg/metrics"
)

const cleanupTimeout = 5 * time.Second

// FileState is the settlement state of a PendingFile.
type FileState int32

const (
	FilePending FileState = iota
	FileCommitted
	FileRolledBack
)

// ResourceManager owns uploaded files between the upload and the store commit
// that references them.
type ResourceManager struct {
	Files  storage.FileStore
	Jobs   JobPublisher
	Logger *logrus.Logger
}

func NewResourceManager(files storage.FileStore, pub JobPublisher, logger *logrus.Logger) *ResourceManager {
	return &ResourceManager{Files: files, Jobs: pub, Logger: logger}
}

// PendingFile is an uploaded file not yet referenced by a committed record.
// It settles exactly once: the first of Commit or Rollback wins and later
// calls do nothing. A nil *PendingFile stands for "no file".
type PendingFile struct {
	path  string
	m     *ResourceManager
	state atomic.Int32
}

// Register takes ownership of the file stored at path.
func (m *ResourceManager) Register(path string) *PendingFile {
	return &PendingFile{path: path, m: m}
}

func (f *PendingFile) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

func (f *PendingFile) State() FileState {
	if f == nil {
		return FilePending
	}
	return FileState(f.state.Load())
}

// Commit keeps the file.
func (f *PendingFile) Commit() {
	if f == nil {
		return
	}
	f.state.CompareAndSwap(int32(FilePending), int32(FileCommitted))
}

// Rollback removes the file unless it was already settled.
func (f *PendingFile) Rollback(ctx context.Context) {
	if f == nil || !f.state.CompareAndSwap(int32(FilePending), int32(FileRolledBack)) {
		return
	}
	f.m.Discard(ctx, f.path)
}

// Discard removes the file at path, best-effort. A missing file counts as
// removed. Failures are logged and counted, and a retry job is queued when a
// publisher is configured; they are never returned.
func (m *ResourceManager) Discard(ctx context.Context, path string) {
	if m == nil || m.Files == nil || path == "" {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	err := m.Files.Remove(c, path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		metrics.FileCleanups.WithLabelValues(metrics.OutcomeOK).Inc()
		return
	}
	metrics.FileCleanups.WithLabelValues(metrics.OutcomeFailed).Inc()
	if m.Logger != nil {
		m.Logger.WithError(err).WithField("path", path).Warn("file cleanup failed")
	}
	if m.Jobs == nil {
		return
	}
	if pErr := m.Jobs.PublishJSON(c, jobs.FileCleanup(path)); pErr != nil && m.Logger != nil {
		m.Logger.WithError(pErr).WithField("path", path).Warn("enqueue file cleanup failed")
	}
}
