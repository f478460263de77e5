package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_Heading(t *testing.T) {
	result := RenderMarkdown("# Notify\n\nSends messages to citizens.")
	assert.Contains(t, result, "<h1")
	assert.Contains(t, result, "Notify</h1>")
	assert.Contains(t, result, "<p>Sends messages to citizens.</p>")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	input := "```sh\nmake run\n```"
	result := RenderMarkdown(input)
	assert.Contains(t, result, "<code")
	assert.Contains(t, result, "make run")
}

func TestRenderMarkdown_ExternalLink(t *testing.T) {
	result := RenderMarkdown("[docs](https://example.gov.uk)")
	assert.Contains(t, result, `href="https://example.gov.uk"`)
	assert.Contains(t, result, `nofollow`)
	assert.Contains(t, result, `target="_blank"`)
	assert.Contains(t, result, "docs</a>")
}

func TestRenderMarkdown_GFMTable(t *testing.T) {
	result := RenderMarkdown("| Env | URL |\n|-----|-----|\n| prod | gov |")
	assert.Contains(t, result, "<table>")
	assert.Contains(t, result, "<th>Env</th>")
	assert.Contains(t, result, "<td>prod</td>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesJavascriptURL(t *testing.T) {
	result := RenderMarkdown(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, result, "javascript:")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~deprecated~~")
	assert.Contains(t, result, "<del>deprecated</del>")
}
