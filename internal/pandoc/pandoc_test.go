// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	available    bool
	gotArgs      []string
	runPipedFunc func(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	m.gotArgs = args
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout)
	}
	return nil
}

func TestMarkdownToHTML(t *testing.T) {
	mock := &mockExecutor{
		available: true,
		runPipedFunc: func(_ string, _ []string, stdin io.Reader, stdout io.Writer) error {
			src, _ := io.ReadAll(stdin)
			if !strings.Contains(string(src), "# Title") {
				t.Errorf("stdin = %q, want the markdown source", src)
			}
			io.WriteString(stdout, "<h1>Title</h1>\n")
			return nil
		},
	}
	p := &Pandoc{bin: "pandoc", exec: mock}

	out, err := p.MarkdownToHTML("# Title\n")
	if err != nil {
		t.Fatal(err)
	}
	if out != "<h1>Title</h1>\n" {
		t.Errorf("output = %q", out)
	}
	want := []string{"--from=markdown", "--to=html5"}
	for i, arg := range want {
		if mock.gotArgs[i] != arg {
			t.Errorf("args = %v, want %v", mock.gotArgs, want)
		}
	}
}

func TestMissingBinary(t *testing.T) {
	p := &Pandoc{bin: "pandoc", exec: &mockExecutor{available: false}}
	_, err := p.HTMLToMarkdown("<p>hi</p>")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T, want *ExternalToolError", err)
	}
	if toolErr.Tool != "pandoc" {
		t.Errorf("tool = %q, want pandoc", toolErr.Tool)
	}
}

func TestProcessFailure(t *testing.T) {
	mock := &mockExecutor{
		available: true,
		runPipedFunc: func(string, []string, io.Reader, io.Writer) error {
			return errors.New("exit status 64")
		},
	}
	p := &Pandoc{bin: "pandoc", exec: mock}
	_, err := p.MarkdownToHTML("# x")
	var toolErr *ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v, want *ExternalToolError", err)
	}
}
