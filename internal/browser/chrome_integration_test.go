//go:build integration
// +build integration

package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elementFixture = `<html><body><form>
<label for="email">Email address</label><input id="email" type="email">
<input id="hidden" type="text" style="display:none">
<label>Country <select id="country">
<option value="">Choose one</option>
<option value="us">United States</option>
<option value="ca">Canada</option>
</select></label>
</form></body></html>`

func openFixture(t *testing.T) *ChromePage {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, elementFixture)
	}))
	t.Cleanup(srv.Close)

	opts := DefaultOptions()
	opts.NavigationTimeout = 20 * time.Second
	b, err := Launch(context.Background(), opts)
	if err != nil {
		t.Skipf("Skipping integration test: Chrome unavailable: %v", err)
	}
	t.Cleanup(b.Close)

	page, err := b.NewPage()
	require.NoError(t, err)
	t.Cleanup(page.Close)
	require.NoError(t, page.Goto(context.Background(), srv.URL))
	return page
}

func query(t *testing.T, page *ChromePage, selector string) Element {
	el, err := page.Query(context.Background(), selector)
	require.NoError(t, err)
	require.NotNil(t, el, selector)
	return el
}

func TestChromeElement_Scripts_Integration(t *testing.T) {
	page := openFixture(t)
	ctx := context.Background()

	visible, err := query(t, page, "#email").IsVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = query(t, page, "#hidden").IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	label, err := query(t, page, "#email").Label(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Email address", label)

	country := query(t, page, "#country")
	options, err := country.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Option{
		{Value: "", Text: "Choose one"},
		{Value: "us", Text: "United States"},
		{Value: "ca", Text: "Canada"},
	}, options)

	require.NoError(t, country.SelectOption(ctx, "ca"))
	idx, err := country.SelectedIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Error(t, country.SelectOption(ctx, "mx"))
}
