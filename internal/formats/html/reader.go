// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package html reads and writes the flat course dialect: an HTML document
// where hierarchy is implied by sibling h1..h6 headings rather than
// containment, and typed blocks are <section data-mu-type=...> containers.
package html

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"coursefmt/internal/diag"
	"coursefmt/internal/formats"
	"coursefmt/internal/units"
	"coursefmt/internal/youtube"
	"coursefmt/pkg/types"
)

const (
	markRight = "✅"
	markWrong = "❌"
)

// surveyAttrs is the attribute allow-list for survey blocks. Anything
// else on the survey header is dropped with a warning.
var surveyAttrs = map[string]bool{
	"max_submissions":           true,
	"private_results":           true,
	units.SurveyFamilyAttribute: true,
}

// Options tunes reader behavior.
type Options struct {
	// MCQMode selects strict (default) or lenient handling of answers
	// without a correctness marker.
	MCQMode types.MCQMode

	// Diags receives soft warnings. May be nil.
	Diags *diag.Collector
}

// Reader parses the flat dialect, anchored at the document's first h1.
type Reader struct {
	header *html.Node
	opts   Options
}

// NewReader parses an HTML document from r. The first h1 element seeds
// the course; a document without one is a structural error.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	h1 := findFirst(doc, "h1")
	if h1 == nil {
		return nil, units.NewStructuralError("could not find any h1 element in the HTML document")
	}
	return &Reader{header: h1, opts: opts}, nil
}

// NewStringReader is NewReader over an in-memory document.
func NewStringReader(contents string, opts Options) (*Reader, error) {
	return NewReader(strings.NewReader(contents), opts)
}

// Open is NewReader over a file.
func Open(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return NewReader(f, opts)
}

// Read reconstructs the course tree from the anchor header.
func (r *Reader) Read() (*units.Collection, error) {
	course, err := r.readHeader(r.header)
	if err != nil {
		return nil, err
	}
	return formats.AsCourse(course)
}

// readHeader builds one unit from a heading element by scanning its
// following siblings.
//
// Headings break parent/child containment: course children are actually
// HTML siblings of their parent heading, so the scan has to decide which
// siblings belong where. A heading at the same or a shallower level ends
// the scan (it belongs to a sibling or ancestor unit, parsed by its own
// invocation); one exactly one level deeper becomes a child through a
// recursive invocation, after which plain content no longer attaches
// here; deeper headings are left for the child invocations to find.
func (r *Reader) readHeader(header *html.Node) (*units.Collection, error) {
	level := headerLevel(header.Data)

	var unit *units.Collection
	if level == 1 {
		unit = units.NewCourse(dataAttributes(header), text(header))
	} else {
		unit = units.NewCollection(dataAttributes(header), text(header))
	}

	siblingsAreChildren := true
	for sib := header.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			// Ignore raw strings between elements.
			continue
		}
		if childLevel := headerLevel(sib.Data); childLevel > 0 {
			if childLevel <= level {
				break
			}
			if childLevel == level+1 {
				child, err := r.readHeader(sib)
				if err != nil {
					return nil, err
				}
				if err := unit.AddChild(child); err != nil {
					return nil, err
				}
				siblingsAreChildren = false
			}
			// Deeper headings belong to a nested invocation's own scan.
			continue
		}
		if !siblingsAreChildren {
			continue
		}
		children, err := r.readContent(sib)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if err := appendMerged(unit, child); err != nil {
				return nil, err
			}
		}
	}
	return unit, nil
}

// appendMerged attaches a child, concatenating adjacent raw HTML units.
func appendMerged(parent *units.Collection, u units.Unit) error {
	if children := parent.Children(); len(children) > 0 {
		if prev, ok := children[len(children)-1].(*units.RawHTML); ok {
			if raw, ok := u.(*units.RawHTML); ok {
				prev.Concatenate(raw)
				return nil
			}
		}
	}
	return parent.AddChild(u)
}

// readContent dispatches a non-heading sibling. Unregistered elements
// yield nothing.
func (r *Reader) readContent(n *html.Node) ([]units.Unit, error) {
	switch n.Data {
	case "section":
		return r.readSection(n)
	case "div", "p", "pre", "video":
		return r.rawUnit(n)
	default:
		return nil, nil
	}
}

// readSection applies the recognizer selected by the type attribute.
func (r *Reader) readSection(n *html.Node) ([]units.Unit, error) {
	unitType, _ := attrVal(n, TypeAttr)
	switch unitType {
	case "mcq":
		return r.readMCQ(n)
	case "ftq":
		return r.readFTQ(n)
	case "video":
		return r.readVideo(n)
	case "survey":
		return r.readSurvey(n)
	default:
		r.opts.Diags.Warnf("unsupported unit type in HTML section: %q", unitType)
		return nil, nil
	}
}

// rawUnit wraps the element's serialized form, carrying its data-*
// attributes.
func (r *Reader) rawUnit(n *html.Node) ([]units.Unit, error) {
	contents, err := render(n)
	if err != nil {
		return nil, fmt.Errorf("serializing raw content: %w", err)
	}
	return []units.Unit{units.NewRawHTML(dataAttributes(n), "", contents)}, nil
}

// readMCQ parses a multiple choice question: one <p> question and one
// <ul> whose items each start with a correctness marker.
func (r *Reader) readMCQ(n *html.Node) ([]units.Unit, error) {
	title := findTitleText(n)
	question, answers, err := questionAnswers(n)
	if err != nil {
		return nil, err
	}

	evaluated := make([]units.Answer, 0, len(answers))
	for _, answer := range answers {
		switch {
		case strings.HasPrefix(answer, markRight):
			evaluated = append(evaluated, units.Answer{
				Text:    strings.TrimSpace(strings.TrimPrefix(answer, markRight)),
				Correct: true,
			})
		case strings.HasPrefix(answer, markWrong):
			evaluated = append(evaluated, units.Answer{
				Text:    strings.TrimSpace(strings.TrimPrefix(answer, markWrong)),
				Correct: false,
			})
		default:
			if r.opts.MCQMode == types.MCQLenient {
				r.opts.Diags.Warnf(
					"answer without %s or %s marker in multiple choice question %q: keeping block as raw content",
					markRight, markWrong, question)
				return r.rawUnit(n)
			}
			return nil, units.NewStructuralError(
				"incorrectly formatted answer in multiple choice question: should start with either %s or %s",
				markRight, markWrong)
		}
	}

	return []units.Unit{units.NewMultipleChoiceQuestion(nil, title, question, evaluated)}, nil
}

// readFTQ parses a free text question: same shape as an MCQ but without
// markers; every answer is accepted.
func (r *Reader) readFTQ(n *html.Node) ([]units.Unit, error) {
	title := findTitleText(n)
	question, answers, err := questionAnswers(n)
	if err != nil {
		return nil, err
	}
	return []units.Unit{units.NewFreeTextQuestion(nil, title, question, answers)}, nil
}

// readVideo parses a video block: a <video> element with sources, or an
// <iframe> embedding a recognized streaming platform.
func (r *Reader) readVideo(n *html.Node) ([]units.Unit, error) {
	title := findTitleText(n)

	videoEl := findFirst(n, "video")
	iframeEl := findFirst(n, "iframe")
	if videoEl == nil && iframeEl == nil {
		return nil, units.NewStructuralError("missing <video> or <iframe> element in unit labelled as video")
	}

	if videoEl != nil {
		var sources []string
		if src, ok := attrVal(videoEl, "src"); ok && src != "" {
			sources = append(sources, src)
		}
		for _, sourceEl := range findAll(videoEl, "source") {
			if src, ok := attrVal(sourceEl, "src"); ok && src != "" {
				sources = append(sources, src)
			}
		}
		return []units.Unit{units.NewVideo(nil, title, sources)}, nil
	}

	src, _ := attrVal(iframeEl, "src")
	if id, ok := youtube.EmbedVideoID(src); ok {
		return []units.Unit{units.NewVideo(nil, title, []string{youtube.WatchURL(id)})}, nil
	}
	return nil, nil
}

// readSurvey parses a structured feedback block: question prompts, shared
// answer options and a feedback string.
func (r *Reader) readSurvey(n *html.Node) ([]units.Unit, error) {
	headerEl := findFirst(n, "h1", "h2", "h3", "h4", "h5", "h6")
	title := ""
	if headerEl != nil {
		title = text(headerEl)
	}

	// Every <p> without a <code> child is a question prompt.
	var questions []string
	for _, p := range findAll(n, "p") {
		if !hasDirectChild(p, "code") {
			questions = append(questions, text(p))
		}
	}
	if len(questions) < 1 {
		return nil, units.NewStructuralError("missing <p> element in survey")
	}

	ul := findFirst(n, "ul")
	if ul == nil {
		return nil, units.NewStructuralError("missing <ul> element in survey")
	}
	var answers []string
	for _, li := range findAll(ul, "li") {
		answers = append(answers, text(li))
	}

	feedback := ""
	if codeEl := findFirst(n, "code"); codeEl != nil {
		feedback = text(codeEl)
	}

	attributes := map[string]string{}
	if headerEl != nil {
		for key, val := range dataAttributes(headerEl) {
			if !surveyAttrs[key] {
				r.opts.Diags.Warnf("unsupported survey attribute dropped: %q", key)
				continue
			}
			attributes[key] = val
		}
	}

	return []units.Unit{units.NewSurvey(attributes, title, questions, answers, feedback)}, nil
}

// questionAnswers extracts the first <p> text and the first <ul>'s item
// texts.
func questionAnswers(n *html.Node) (question string, answers []string, err error) {
	questionEl := findFirst(n, "p")
	if questionEl == nil {
		return "", nil, units.NewStructuralError("missing <p> element in multiple choice question")
	}
	question = text(questionEl)

	ul := findFirst(n, "ul")
	if ul == nil {
		return "", nil, units.NewStructuralError("missing <ul> element in multiple choice question")
	}
	for _, li := range findAll(ul, "li") {
		answers = append(answers, text(li))
	}
	return question, answers, nil
}

// findTitleText returns the text of the first nested heading, if any.
func findTitleText(n *html.Node) string {
	if headerEl := findFirst(n, "h1", "h2", "h3", "h4", "h5", "h6"); headerEl != nil {
		return text(headerEl)
	}
	return ""
}
