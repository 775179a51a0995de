// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc invokes the external pandoc process to translate between
// Markdown and HTML. The invocation is blocking and not cancellable; a
// caller needing timeouts must wrap it.
package pandoc

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultBin is the binary looked up on PATH when no explicit path is
// configured.
const DefaultBin = "pandoc"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// Pandoc translates documents by piping them through the pandoc binary.
type Pandoc struct {
	bin  string
	exec executor
}

// New returns a Pandoc using the given binary path, or DefaultBin when
// empty. The binary is looked up lazily, at first use.
func New(bin string) *Pandoc {
	if bin == "" {
		bin = DefaultBin
	}
	return &Pandoc{bin: bin, exec: defaultExec}
}

// MarkdownToHTML converts markdown source text to the HTML5 flavor pandoc
// produces.
func (p *Pandoc) MarkdownToHTML(src string) (string, error) {
	return p.run(src, "--from=markdown", "--to=html5")
}

// HTMLToMarkdown converts HTML source text to pandoc-flavored Markdown.
func (p *Pandoc) HTMLToMarkdown(src string) (string, error) {
	return p.run(src, "--from=html", "--to=markdown")
}

func (p *Pandoc) run(src string, args ...string) (string, error) {
	if _, err := p.exec.LookPath(p.bin); err != nil {
		return "", &ExternalToolError{
			Tool: p.bin,
			Err:  fmt.Errorf("%s must be installed to convert Markdown: %w", p.bin, err),
		}
	}
	var out bytes.Buffer
	if err := p.exec.RunPiped(p.bin, args, strings.NewReader(src), &out); err != nil {
		return "", &ExternalToolError{
			Tool: p.bin,
			Err:  fmt.Errorf("running %s %s: %w", p.bin, strings.Join(args, " "), err),
		}
	}
	return out.String(), nil
}
