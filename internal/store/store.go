// ABOUTME: Store interface and entities for room selections and transfer jobs.
// ABOUTME: Selections drive document routing; jobs are a per-transfer audit trail.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/folio/internal/convert"
)

// Store errors.
var (
	ErrJobNotFound = errors.New("job not found")
)

// JobStatus describes where a transfer job ended up.
type JobStatus string

const (
	JobStatusConverting JobStatus = "converting"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Job records one document transfer: download, conversion, upload, cleanup.
type Job struct {
	ID         string // UUID v4
	RoomID     string
	Filename   string // filename as uploaded by the user
	Kind       convert.Kind
	Status     JobStatus
	Detail     string // failure reason, empty otherwise
	CreatedAt  time.Time
	FinishedAt *time.Time // nil while converting
}

// Store persists room selections and transfer jobs.
type Store interface {
	// Selection returns the room's current conversion selection, or
	// convert.KindUnset when the room has never picked one.
	Selection(ctx context.Context, roomID string) (convert.Kind, error)

	// SetSelection overwrites the room's selection. Selections never expire;
	// a stale selection persists until overwritten.
	SetSelection(ctx context.Context, roomID string, kind convert.Kind) error

	// RecordJob inserts a new transfer job.
	RecordJob(ctx context.Context, job *Job) error

	// FinishJob marks a job done or failed. Returns ErrJobNotFound if the
	// job was never recorded.
	FinishJob(ctx context.Context, id string, status JobStatus, detail string) error

	Close() error
}
