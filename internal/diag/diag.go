// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diag collects conversion diagnostics.
//
// Readers and writers report soft conditions (unresolved references,
// dropped attributes, unsupported constructs) to an injected Collector
// instead of process-wide logging. The CLI decides what to surface based
// on its verbosity flag. A nil Collector discards everything, so library
// code never has to guard its calls.
package diag

import (
	"fmt"
	"io"
)

// Level orders message severities. Warnings are always printed; info and
// debug require raised verbosity.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

// String returns the label used when printing.
func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// Message is one collected diagnostic.
type Message struct {
	Level Level
	Text  string
}

// Collector accumulates messages in the order they were reported.
type Collector struct {
	messages []Message
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

func (c *Collector) add(level Level, format string, args ...any) {
	if c == nil {
		return
	}
	c.messages = append(c.messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Warnf records a warning.
func (c *Collector) Warnf(format string, args ...any) { c.add(LevelWarn, format, args...) }

// Infof records an informational message.
func (c *Collector) Infof(format string, args ...any) { c.add(LevelInfo, format, args...) }

// Debugf records a debug message.
func (c *Collector) Debugf(format string, args ...any) { c.add(LevelDebug, format, args...) }

// Messages returns the collected messages in report order.
func (c *Collector) Messages() []Message {
	if c == nil {
		return nil
	}
	return c.messages
}

// Warnings returns only the warning texts, for report output.
func (c *Collector) Warnings() []string {
	var out []string
	for _, m := range c.Messages() {
		if m.Level == LevelWarn {
			out = append(out, m.Text)
		}
	}
	return out
}

// Print writes messages up to the level implied by verbosity: 0 prints
// warnings, 1 adds info, 2 and above adds debug.
func (c *Collector) Print(w io.Writer, verbosity int) {
	max := LevelWarn
	switch {
	case verbosity == 1:
		max = LevelInfo
	case verbosity >= 2:
		max = LevelDebug
	}
	for _, m := range c.Messages() {
		if m.Level <= max {
			fmt.Fprintf(w, "%s: %s\n", m.Level, m.Text)
		}
	}
}
