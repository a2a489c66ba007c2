package browser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/browser/browsertest"
)

func TestSnapshot(t *testing.T) {
	page := browsertest.NewPage("https://example.com/jobs")
	page.Content = "<html><body><h1>Jobs</h1></body></html>"

	snap, err := browser.Snapshot(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/jobs", snap.URL)
	assert.Equal(t, page.PNG, snap.Screenshot)
	assert.Contains(t, snap.HTML, "<h1>Jobs</h1>")
}

func TestFirstVisible_SkipsHiddenAndMissing(t *testing.T) {
	page := browsertest.NewPage("https://example.com")
	hidden := browsertest.Input("")
	hidden.Hidden = true
	page.Add("input[type='search']", hidden)
	visible := page.Add("input[name='q']", browsertest.Input(""))

	el, selector, err := browser.FirstVisible(context.Background(), page,
		[]string{"#missing", "input[type='search']", "input[name='q']"})
	require.NoError(t, err)
	assert.Equal(t, "input[name='q']", selector)
	assert.Same(t, visible, el)
}

func TestFirstVisible_NoneFound(t *testing.T) {
	page := browsertest.NewPage("https://example.com")

	el, selector, err := browser.FirstVisible(context.Background(), page, []string{"#a", "#b"})
	require.NoError(t, err)
	assert.Nil(t, el)
	assert.Empty(t, selector)
}

func TestNavigationError_Unwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := &browser.NavigationError{URL: "https://example.com", Cause: cause}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "https://example.com")
}
