// Package markdown renders author-written lesson text to HTML that is safe to serve.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer interface {
	// Render converts Markdown to sanitized HTML.
	Render(markdown string) (string, error)
	// StripTags removes every tag, for user-generated text such as comments.
	StripTags(text string) string
}

type renderer struct {
	md     goldmark.Markdown
	lesson *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewRenderer() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			// authors embed course players as raw iframes; the policy below filters them
			html.WithUnsafe(),
		),
	)

	lesson := bluemonday.UGCPolicy()
	lesson.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "div", "pre")
	lesson.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	lesson.AllowAttrs("src", "width", "height", "allowfullscreen", "frameborder").OnElements("iframe")
	lesson.AllowURLSchemes("https")
	lesson.RequireParseableURLs(true)

	return &renderer{
		md:     md,
		lesson: lesson,
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) Render(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.lesson.Sanitize(buf.String()), nil
}

func (r *renderer) StripTags(text string) string {
	return r.strict.Sanitize(text)
}
