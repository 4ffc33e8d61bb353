package httphandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", renderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	assert.Contains(t, renderMarkdown("sunset at the pier"), "sunset at the pier")
}

func TestRenderMarkdown_Emphasis(t *testing.T) {
	result := renderMarkdown("**best** day _ever_")
	assert.Contains(t, result, "<strong>best</strong>")
	assert.Contains(t, result, "<em>ever</em>")
}

func TestRenderMarkdown_HardWraps(t *testing.T) {
	result := renderMarkdown("line one\nline two")
	assert.Contains(t, result, "<br")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := renderMarkdown("[album](https://example.com/album)")
	assert.Contains(t, result, `<a href="https://example.com/album"`)
	assert.Contains(t, result, "album</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := renderMarkdown(`hi <script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesEventHandlers(t *testing.T) {
	result := renderMarkdown(`<img src="x.jpg" onerror="alert(1)">`)
	assert.NotContains(t, result, "onerror")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	assert.Contains(t, renderMarkdown("~~rain~~"), "<del>rain</del>")
}
