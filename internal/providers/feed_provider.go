package providers

import (
	"context"
	"io"
	"strconv"

	"infinite-experiment/calllist/internal/directory"
)

// FeedProvider turns an uploaded station feed into rows for the importer.
type FeedProvider interface {
	// ReadFeed decodes every row it can. A malformed row is reported in
	// FeedBatch.Errors and does not stop the rest. The error return is only
	// for feeds that cannot be read at all (no header, I/O failure).
	ReadFeed(ctx context.Context, r io.Reader) (*FeedBatch, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string
}

// FeedBatch is the decoded content of one feed.
type FeedBatch struct {
	Rows   []directory.FeedRow
	Errors []RowError
	// Unused lists header columns no FeedRow field maps to.
	Unused []string
}

// RowError is a row the decoder could not read.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}
