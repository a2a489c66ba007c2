package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/browser/browsertest"
	"github.com/jonathan/job-hunter/internal/types"
)

const greenhousePage = `<html><body>
<nav>Acme home</nav>
<div class="job__description body">
  <h2>About the role</h2>
  <p>You will build <strong>distributed systems</strong> in Go.</p>
  <ul><li>5+ years experience</li><li>PostgreSQL</li></ul>
</div>
<a id="apply_button" href="#">Apply</a>
<a href="/acme/jobs/4821/apply">Apply for this job</a>
</body></html>`

func TestHydrateFromHTML_Greenhouse(t *testing.T) {
	detail := HydrateFromHTML(greenhousePage, "https://boards.greenhouse.io/acme/jobs/4821")

	assert.Contains(t, detail.Description, "About the role")
	assert.Contains(t, detail.Description, "**distributed systems**")
	assert.Contains(t, detail.Description, "PostgreSQL")
	assert.NotContains(t, detail.Description, "Acme home")
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/4821/apply", detail.ApplyURL)
	assert.Empty(t, detail.ID)
}

func TestHydrateFromHTML_NoApplyLink(t *testing.T) {
	detail := HydrateFromHTML("<html><body><main><p>Role details</p></main></body></html>", "https://acme.com/jobs/1")

	assert.Contains(t, detail.Description, "Role details")
	assert.Empty(t, detail.ApplyURL)
}

func TestHydrate_MergesIntoOriginal(t *testing.T) {
	e := fixedEngine(nil, nil)
	page := browsertest.NewPage("about:blank")
	page.Content = greenhousePage

	job := types.DiscoveredJob{
		ID:          JobID("https://boards.greenhouse.io/acme/jobs/4821"),
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "short",
		URL:         "https://boards.greenhouse.io/acme/jobs/4821",
	}

	detail, err := e.Hydrate(context.Background(), page, job)
	require.NoError(t, err)

	merged := types.MergeJob(job, detail)
	assert.Equal(t, job.ID, merged.ID)
	assert.Equal(t, "Backend Engineer", merged.Title)
	assert.Contains(t, merged.Description, "distributed systems")
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/4821/apply", merged.ApplyURL)
	assert.Equal(t, []string{job.URL}, page.Visits)
}
