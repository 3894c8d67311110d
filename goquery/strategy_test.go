package goquery_test

import (
	"testing"

	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPageHTML = `<!DOCTYPE html>
<html>
<head><title>Gong | Search</title></head>
<body>
<div class="pagination-results-top-state">10 of 47</div>
<ul class="call-list">
	<li class="call-result">
		<a class="call-result__main" href="/call?id=1111">
			<span class="call-title-block"> Renewal: next steps </span>
			<div class="call-result__row">Ann Lee, Bob Diaz</div>
			<div class="call-result__row">January 5, 2024, 10:00 AM EST</div>
		</a>
		<span class="call-duration">32m</span>
		<div role="textbox">Discussed renewal terms. Open call brief</div>
		<div data-testid="show-account-info"><span class="gong-btn__text">Acme</span></div>
	</li>
	<li class="call-result">
		<a class="call-result__main" href="/call?tab=brief">
			<div class="call-result__row">Cy Young</div>
		</a>
	</li>
</ul>
<ul class="pagination">
	<li class="page-number active"><a>1</a></li>
	<li class="page-number"><a>2</a></li>
	<li class="page-number"><a>3</a></li>
	<li class="page-number">...</li>
	<li class="next-page"><a>Next</a></li>
</ul>
</body>
</html>`

func TestStrategy_ExtractListPage(t *testing.T) {
	t.Parallel()

	t.Run("extracts call fields", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStrategy()
		calls, _, err := s.ExtractListPage(listPageHTML)

		require.NoError(t, err)
		require.Len(t, calls, 2)
		assert.Equal(t, &callscribe.Call{
			ID:           "1111",
			Title:        "Renewal: next steps",
			Company:      "Acme",
			Date:         "January 5, 2024, 10:00 AM EST",
			Duration:     "32m",
			Participants: "Ann Lee, Bob Diaz",
			Summary:      "Discussed renewal terms.",
			Link:         "/call?id=1111",
			Index:        0,
		}, calls[0])
	})

	t.Run("defaults missing fields", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStrategy()
		calls, _, err := s.ExtractListPage(listPageHTML)

		require.NoError(t, err)
		require.Len(t, calls, 2)
		c := calls[1]
		assert.Empty(t, c.ID)
		assert.Equal(t, "Unknown Call 2", c.Title)
		assert.Equal(t, "Cy Young", c.Participants)
		assert.Empty(t, c.Date)
		assert.Empty(t, c.Company)
		assert.Empty(t, c.Duration)
		assert.Empty(t, c.Summary)
		assert.Equal(t, 1, c.Index)
	})

	t.Run("reconciles pagination with results counter", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStrategy()
		_, p, err := s.ExtractListPage(listPageHTML)

		require.NoError(t, err)
		assert.Equal(t, &callscribe.Pagination{
			TotalResults: 47,
			CurrentPage:  1,
			TotalPages:   5,
			PerPage:      10,
		}, p)
	})

	t.Run("uses explicit page count without counter", func(t *testing.T) {
		t.Parallel()

		html := `<ul>
			<li class="page-number">1</li>
			<li class="page-number active">2</li>
			<li class="page-number">3</li>
		</ul>`

		s := goquery.NewStrategy()
		calls, p, err := s.ExtractListPage(html)

		require.NoError(t, err)
		assert.Empty(t, calls)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 0, p.TotalResults)
		assert.Equal(t, callscribe.DefaultPerPage, p.PerPage)
	})

	t.Run("single page without pagination controls", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewStrategy()
		_, p, err := s.ExtractListPage(`<div class="pagination-results-top-state">3 of 3</div>`)

		require.NoError(t, err)
		assert.Equal(t, 1, p.TotalPages)
		assert.Equal(t, 1, p.CurrentPage)
		assert.Equal(t, 3, p.TotalResults)
	})
}

func TestStrategy_ExtractTranscript(t *testing.T) {
	t.Parallel()

	t.Run("extracts entries in document order", func(t *testing.T) {
		t.Parallel()

		html := `<div class="transcript">
			<div class="monologue-inner">
				<span class="timestamp__speaker">Ann Lee</span>
				<span class="timestamp__timer">0:01</span>
				<div class="monologue-text" aria-label="Hello everyone."><span>Hello</span> <span>everyone.</span></div>
			</div>
			<div class="monologue-inner">
				<span class="timestamp__timer">0:09</span>
				<div class="monologue-text">  Thanks for joining.  </div>
			</div>
		</div>`

		s := goquery.NewStrategy()
		entries, err := s.ExtractTranscript(html)

		require.NoError(t, err)
		assert.Equal(t, []*callscribe.TranscriptEntry{
			{Timestamp: "0:01", Speaker: "Ann Lee", Text: "Hello everyone."},
			{Timestamp: "0:09", Speaker: "Unknown", Text: "Thanks for joining."},
		}, entries)
	})

	t.Run("drops units without text", func(t *testing.T) {
		t.Parallel()

		html := `<div class="monologue-inner">
			<span class="timestamp__speaker">Ann</span>
			<div class="monologue-text" aria-label="  "></div>
		</div>
		<div class="monologue-inner"><span class="timestamp__speaker">Bob</span></div>`

		s := goquery.NewStrategy()
		entries, err := s.ExtractTranscript(html)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStrategy_Selectors(t *testing.T) {
	t.Parallel()

	sel := goquery.NewStrategy().Selectors()

	assert.Equal(t, "ul.call-list", sel.ResultList)
	assert.Equal(t, "li.page-number", sel.PageNumber)
	assert.Equal(t, "Transcript", sel.TranscriptLabel)
	assert.Equal(t, ".monologue-inner", sel.TranscriptUnit)
}
