// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package md

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// GoldmarkConverter renders Markdown in-process with goldmark. It only
// covers the read direction; courses can still be written to Markdown
// through pandoc.
type GoldmarkConverter struct {
	engine goldmark.Markdown
}

func NewGoldmarkConverter() *GoldmarkConverter {
	return &GoldmarkConverter{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Course sources embed raw HTML blocks such as typed
			// <section> containers; keep them in the output.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (g *GoldmarkConverter) MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func (g *GoldmarkConverter) HTMLToMarkdown(src string) (string, error) {
	return "", fmt.Errorf("the goldmark backend cannot convert HTML to Markdown; use pandoc")
}
