package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<html><head><title>Backend Engineer</title><script>track()</script></head>
<body>
  <nav>Home | Jobs</nav>
  <header>Acme Careers</header>
  <div class="job__description body">
    <h1>Backend Engineer</h1>
    <p>Build   payment services in Go.</p>

    <div class="voluntary-self-id">Voluntary self identification</div>
  </div>
  <form id="application-form"><input name="email"></form>
  <footer>© Acme</footer>
</body></html>`

func TestExtractMainText(t *testing.T) {
	text, err := ExtractMainText(jobPage, PlatformContentSelectors(PlatformGreenhouse), PlatformNoiseSelectors(PlatformGreenhouse)...)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer\nBuild   payment services in Go.", text)
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text, err := ExtractMainText(jobPage, []string{".does-not-exist"})
	require.NoError(t, err)

	assert.Contains(t, text, "Build   payment services in Go.")
	assert.Contains(t, text, "Voluntary self identification")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "© Acme")
	assert.NotContains(t, text, "track()")
}

func TestMainContentHTML(t *testing.T) {
	out, err := MainContentHTML(jobPage, PlatformContentSelectors(PlatformGreenhouse), PlatformNoiseSelectors(PlatformGreenhouse)...)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<h1>Backend Engineer</h1>"))
	assert.NotContains(t, out, "self-id")
	assert.NotContains(t, out, "application-form")
}

func TestCompactHTML(t *testing.T) {
	html := `<html><head><style>.x{}</style><meta charset="utf-8"></head><body>
<!-- tracking -->
<div style="color:red" onclick="go()" data-v-1a2b="" class="field">
<label for="email">Email</label>


<input id="email" type="email" required>
</div><svg><path d="M0"/></svg><iframe src="x"></iframe></body></html>`

	out := CompactHTML(html, 0)
	assert.Contains(t, out, `<label for="email">Email</label>`)
	assert.Contains(t, out, `<input id="email" type="email" required=""/>`)
	assert.Contains(t, out, `class="field"`)
	for _, gone := range []string{"style", "onclick", "data-v-", "tracking", "<svg", "<iframe", "<meta", "\n\n"} {
		assert.NotContains(t, out, gone)
	}
}

func TestCompactHTML_Truncates(t *testing.T) {
	out := CompactHTML("<p>héllo wörld</p>", 12)
	assert.Len(t, []rune(out), 12)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
}

func TestCleanLines(t *testing.T) {
	assert.Equal(t, "a\nb c", cleanLines("  a  \n\n\t\n  b c\n"))
	assert.Equal(t, "", cleanLines(" \n "))
}
