package providers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/directory"
)

const feedHeader = "Feed,Status,Rank,Station,City,Air Time,ET Time,Main Name,Main Phone,#2 Name,Phone #2,#3 Name,Phone #3,#4 Name,Phone #4\n"

func TestReadFeed_QuotedAndShortRows(t *testing.T) {
	feed := feedHeader +
		`3,Live,5,WXYZ,"Metropolis, NY",3:00 PM,4:00 PM,Ops,(555) 123-4567,,,,,,` + "\n" +
		`5pm,,12,KABC,Gotham,5:00 PM,8:00 PM,Desk,"555.987.6543"` + "\n"

	batch, err := NewCSVFeedProvider().ReadFeed(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	require.Empty(t, batch.Errors)
	require.Len(t, batch.Rows, 2)

	first := batch.Rows[0]
	assert.Equal(t, "Metropolis, NY", first.City)
	assert.Equal(t, "(555) 123-4567", first.MainPhone)
	assert.Equal(t, 2, first.Line)

	second := batch.Rows[1]
	assert.Equal(t, "KABC", second.Station)
	assert.Equal(t, "", second.Phone4)
	assert.Equal(t, 3, second.Line)
}

func TestReadFeed_HeaderWhitespaceAndBOM(t *testing.T) {
	feed := "\ufeffFeed , Status,Rank,Station,City,Air Time ,ET Time,Main Name,Main Phone,Notes\n" +
		"6, might ,1,WAAA,Springfield,6:00 PM,7:00 PM,Ops,5551234567,call after 5\n"

	batch, err := NewCSVFeedProvider().ReadFeed(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, "6", batch.Rows[0].Feed)
	assert.Equal(t, "might", batch.Rows[0].Status)
	assert.Equal(t, "6:00 PM", batch.Rows[0].AirTime)
	assert.Equal(t, []string{"Notes"}, batch.Unused)
}

func TestReadFeed_Empty(t *testing.T) {
	_, err := NewCSVFeedProvider().ReadFeed(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, directory.ErrValidation))

	batch, err := NewCSVFeedProvider().ReadFeed(context.Background(), strings.NewReader(feedHeader))
	require.NoError(t, err)
	assert.Empty(t, batch.Rows)
}

func TestReadFeed_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVFeedProvider().ReadFeed(ctx, strings.NewReader(feedHeader+"3,,1,W,C,,,,,,,,,,\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadFeed_StreamErrorAbortsRun(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(
		strings.NewReader(feedHeader+"3,Live,5,WXYZ,Metropolis,3:00 PM,4:00 PM,Ops,5551234567\n"),
		iotest.ErrReader(boom),
	)

	_, err := NewCSVFeedProvider().ReadFeed(context.Background(), r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}
