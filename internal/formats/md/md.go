// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package md reads and writes Markdown courses by converting to and from
// the flat HTML dialect through a pluggable converter backend.
package md

import (
	"fmt"
	"os"

	"coursefmt/internal/diag"
	"coursefmt/internal/formats/html"
	"coursefmt/internal/units"
)

// Converter turns Markdown into HTML and back. The default implementation
// shells out to pandoc; goldmark covers the read direction without an
// external tool.
type Converter interface {
	MarkdownToHTML(src string) (string, error)
	HTMLToMarkdown(src string) (string, error)
}

// Reader loads a Markdown course: the source is converted to HTML and the
// flat-dialect reader takes it from there.
type Reader struct {
	contents string
	conv     Converter
	opts     html.Options
}

// NewStringReader reads a course from in-memory Markdown.
func NewStringReader(contents string, conv Converter, opts html.Options) *Reader {
	return &Reader{contents: contents, conv: conv, opts: opts}
}

// Open reads a course from a Markdown file.
func Open(path string, conv Converter, opts html.Options) (*Reader, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewStringReader(string(contents), conv, opts), nil
}

func (r *Reader) Read() (*units.Collection, error) {
	rendered, err := r.conv.MarkdownToHTML(r.contents)
	if err != nil {
		return nil, err
	}
	hr, err := html.NewStringReader(rendered, r.opts)
	if err != nil {
		return nil, err
	}
	return hr.Read()
}

// Writer emits a Markdown course: units are rendered through the unstyled
// flat-dialect writer and the document is converted back in one pass.
type Writer struct {
	inner *html.Writer
	conv  Converter
}

func NewWriter(conv Converter, diags *diag.Collector) *Writer {
	return &Writer{inner: html.NewUnstyledWriter(diags), conv: conv}
}

func (w *Writer) Write(u units.Unit) error {
	return w.inner.Write(u)
}

// Render converts the accumulated document to Markdown text.
func (w *Writer) Render() (string, error) {
	rendered, err := w.inner.Render()
	if err != nil {
		return "", err
	}
	return w.conv.HTMLToMarkdown(rendered)
}

// WriteTo renders the document to a file.
func (w *Writer) WriteTo(filename string) error {
	contents, err := w.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}
