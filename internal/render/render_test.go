package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToText_ErrorPage(t *testing.T) {
	page := `<html><head><title>502 Bad Gateway</title><style>body{color:red}</style></head>
<body><center><h1>502 Bad Gateway</h1></center><hr><center>nginx/1.25.3</center>
<script>console.log("x")</script></body></html>`

	got := HTMLToText(page, 0)

	assert.Equal(t, "502 Bad Gateway\nnginx/1.25.3", got)
}

func TestHTMLToText_EntitiesAndParagraphs(t *testing.T) {
	got := HTMLToText("<p>Too many requests &amp; retries</p><p>Try again later</p>", 0)
	assert.Equal(t, "Too many requests & retries\nTry again later", got)
}

func TestHTMLToText_Empty(t *testing.T) {
	assert.Empty(t, HTMLToText("", 80))
}

func TestWrap(t *testing.T) {
	got := Wrap("use a longer password with mixed character classes", 20)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Equal(t, "use a longer password with mixed character classes", strings.ReplaceAll(got, "\n", " "))
	assert.Equal(t, "unchanged text", Wrap("unchanged text", 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestStrengthPercent(t *testing.T) {
	assert.Equal(t, 0, StrengthPercent(""))
	assert.Equal(t, 33, StrengthPercent("weak"))
	assert.Equal(t, 66, StrengthPercent("medium"))
	assert.Equal(t, 100, StrengthPercent("strong"))
	assert.Equal(t, 100, StrengthPercent("something-new"))
}

func TestMeter(t *testing.T) {
	got := Meter("weak", 30)
	assert.Equal(t, 9, strings.Count(got, meterFull))
	assert.Equal(t, 21, strings.Count(got, meterEmpty))

	got = Meter("strong", 30)
	assert.Equal(t, 30, strings.Count(got, meterFull))
	assert.Zero(t, strings.Count(got, meterEmpty))

	got = Meter("", 10)
	assert.Equal(t, 10, strings.Count(got, meterEmpty))

	assert.Empty(t, Meter("weak", 0))
}

func TestCheck(t *testing.T) {
	got := Check("weak", []string{"Too short", "No digits"}, []string{"Add numbers"}, 40)

	assert.Contains(t, got, "Strength:")
	assert.Contains(t, got, "weak")
	assert.Contains(t, got, "(2 issues)")
	assert.Contains(t, got, "• Too short")
	assert.Contains(t, got, "• No digits")
	assert.Contains(t, got, "• Add numbers")
}

func TestCheck_NoResult(t *testing.T) {
	got := Check("", nil, nil, 40)

	assert.Contains(t, got, "Strength:")
	assert.Contains(t, got, "No issues identified yet")
	assert.Contains(t, got, "Type a password and press Enter")
	assert.NotContains(t, got, "issues)")
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", timeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "1 minute ago", timeAgo(now.Add(-time.Minute), now))
	assert.Equal(t, "5 minutes ago", timeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2 hours ago", timeAgo(now.Add(-2*time.Hour), now))
	assert.Equal(t, "3 days ago", timeAgo(now.Add(-72*time.Hour), now))
	assert.Equal(t, "2025-12-01", timeAgo(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), now))
}
