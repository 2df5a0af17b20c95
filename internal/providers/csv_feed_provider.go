package providers

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
)

const utf8BOM = "\ufeff"

// CSVFeedProvider reads header-keyed, comma-separated, double-quote-escaped feeds.
type CSVFeedProvider struct{}

var _ FeedProvider = (*CSVFeedProvider)(nil)

func NewCSVFeedProvider() *CSVFeedProvider {
	return &CSVFeedProvider{}
}

func (p *CSVFeedProvider) GetProviderType() string {
	return "csv"
}

// paddedReader fixes every record to the header's width so short rows read
// as empty trailing columns instead of failing the row.
// Read errors from the underlying stream are kept in ioErr; only csv parse
// errors are row-scoped.
type paddedReader struct {
	r     *csv.Reader
	width int
	ioErr error
}

func (p *paddedReader) Read() ([]string, error) {
	record, err := p.r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if !errors.Is(err, io.EOF) && !errors.As(err, &parseErr) {
			p.ioErr = err
		}
		return nil, err
	}
	switch {
	case len(record) < p.width:
		record = append(record, make([]string, p.width-len(record))...)
	case len(record) > p.width:
		record = record[:p.width]
	}
	return record, nil
}

func (p *CSVFeedProvider) ReadFeed(ctx context.Context, r io.Reader) (*FeedBatch, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no data in CSV", directory.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", directory.ErrValidation, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}

	padded := &paddedReader{r: reader, width: len(header)}
	dec, err := csvutil.NewDecoder(padded, header...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for feed: %w", err)
	}

	batch := &FeedBatch{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var row directory.FeedRow
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if padded.ioErr != nil {
			return nil, fmt.Errorf("failed to read feed: %w", padded.ioErr)
		}
		if err != nil {
			rowErr := RowError{Err: err}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErr.Line = parseErr.StartLine
			}
			batch.Errors = append(batch.Errors, rowErr)
			continue
		}

		row = row.Trimmed()
		row.Line, _ = reader.FieldPos(0)
		batch.Rows = append(batch.Rows, row)
	}

	batch.Unused = unusedColumns(header, dec.Unused())
	if len(batch.Unused) > 0 {
		logging.Warn("Feed has unmapped columns", "columns", batch.Unused)
	}
	logging.Debug("Decoded feed", "rows", len(batch.Rows), "errors", len(batch.Errors))
	return batch, nil
}

func unusedColumns(header []string, idx []int) []string {
	var out []string
	for _, i := range idx {
		if i < len(header) && header[i] != "" {
			out = append(out, header[i])
		}
	}
	return out
}
