package store

import (
	"context"

	"github.com/elkscene/elkscene/pkg/errors"
)

// NullArchive drops all writes. It backs deployments without an archive and
// keeps nil checks out of the pipeline.
type NullArchive struct{}

// NewNullArchive creates an archive that records nothing.
func NewNullArchive() *NullArchive {
	return &NullArchive{}
}

// Put drops the run.
func (*NullArchive) Put(ctx context.Context, run *Run) error { return nil }

// Get always reports the run as missing.
func (*NullArchive) Get(ctx context.Context, id string) (*Run, error) {
	return nil, errors.New(errors.ErrCodeNotFound, "run archive is disabled")
}

// List returns no runs.
func (*NullArchive) List(ctx context.Context, limit int) ([]*Run, error) {
	return nil, nil
}

// Close is a no-op.
func (*NullArchive) Close(ctx context.Context) error { return nil }

var _ Archive = (*NullArchive)(nil)
