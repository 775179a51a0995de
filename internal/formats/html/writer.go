// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package html

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"coursefmt/internal/diag"
	"coursefmt/internal/units"
	"coursefmt/internal/youtube"
)

// documentSkeleton is the empty flat-dialect document the writer appends
// into.
const documentSkeleton = "<!DOCTYPE html><html><head></head><body></body></html>"

// style is the CSS block the styled writer attaches to the document head.
const style = `
body {
    max-width: 1024px;
    margin: auto;
    font-family: sans-serif;
}

video {
    width: 800px;
}

iframe {
    width: 800px;
    height: 450px;
}
`

// videoTypes maps source file extensions to the HTML5 source type.
var videoTypes = map[string]string{
	".mp4":  "mp4",
	".mov":  "mp4",
	".ogg":  "ogg",
	".webm": "webm",
}

// Writer serializes a course tree as a flat-dialect HTML document. Every
// unit kind has a handler; hitting an unknown kind is a programming
// error, not a runtime condition.
type Writer struct {
	doc    *html.Node
	head   *html.Node
	body   *html.Node
	diags  *diag.Collector
	styled bool
}

// NewWriter returns a writer that attaches basic CSS styling.
func NewWriter(diags *diag.Collector) *Writer {
	w := newWriter(diags)
	w.styled = true
	return w
}

// NewUnstyledWriter returns a writer without the CSS block.
func NewUnstyledWriter(diags *diag.Collector) *Writer {
	return newWriter(diags)
}

func newWriter(diags *diag.Collector) *Writer {
	doc, err := html.Parse(strings.NewReader(documentSkeleton))
	if err != nil {
		// The skeleton is a constant; it always parses.
		panic(err)
	}
	return &Writer{
		doc:   doc,
		head:  findFirst(doc, "head"),
		body:  findFirst(doc, "body"),
		diags: diags,
	}
}

// Write serializes the unit and, depth-first, its children.
func (w *Writer) Write(u units.Unit) error {
	if err := w.writeUnit(u); err != nil {
		return err
	}
	if c, ok := u.(*units.Collection); ok {
		for _, child := range c.Children() {
			if err := w.Write(child); err != nil {
				return err
			}
		}
	}
	return nil
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

// Render returns the document as HTML text.
func (w *Writer) Render() (string, error) {
	return render(w.doc)
}

func (w *Writer) writeUnit(u units.Unit) error {
	switch u.Kind() {
	case units.KindCourse:
		w.body.AppendChild(w.headerTag(u))
		if w.styled {
			css := elem("style")
			css.AppendChild(textNode(style))
			w.head.AppendChild(css)
		}
	case units.KindCollection:
		w.body.AppendChild(w.headerTag(u))
	case units.KindMCQ, units.KindFTQ:
		w.writeQuestion(u.(*units.MultipleChoiceQuestion))
	case units.KindSurvey:
		w.writeSurvey(u.(*units.Survey))
	case units.KindVideo:
		w.writeVideo(u.(*units.Video))
	case units.KindRawHTML:
		return w.writeRawHTML(u.(*units.RawHTML))
	default:
		panic(fmt.Sprintf("no HTML writer for unit kind %q", u.Kind()))
	}
	return nil
}

// headerTag builds the h<depth+1> heading carrying the unit title and its
// attributes in data-* form.
func (w *Writer) headerTag(u units.Unit) *html.Node {
	tag := elem("h"+strconv.Itoa(u.Depth()+1), dataAttrs(u.Attributes())...)
	if title := u.Title(); title != "" {
		tag.AppendChild(textNode(title))
	}
	return tag
}

func (w *Writer) writeQuestion(q *units.MultipleChoiceQuestion) {
	unitType := "mcq"
	if q.Kind() == units.KindFTQ {
		unitType = "ftq"
	}
	section := elem("section", attr(TypeAttr, unitType))
	section.AppendChild(w.headerTag(q))

	question := elem("p")
	question.AppendChild(textNode(q.Question()))
	section.AppendChild(question)

	answers := elem("ul")
	for _, a := range q.Answers() {
		li := elem("li")
		if unitType == "mcq" {
			mark := markWrong
			if a.Correct {
				mark = markRight
			}
			li.AppendChild(textNode(mark + " " + a.Text))
		} else {
			li.AppendChild(textNode(a.Text))
		}
		answers.AppendChild(li)
	}
	section.AppendChild(answers)

	w.body.AppendChild(section)
}

func (w *Writer) writeSurvey(s *units.Survey) {
	section := elem("section", attr(TypeAttr, "survey"))
	section.AppendChild(w.headerTag(s))

	for _, question := range s.Questions() {
		p := elem("p")
		p.AppendChild(textNode(question))
		section.AppendChild(p)
	}

	answers := elem("ul")
	for _, answer := range s.Answers() {
		li := elem("li")
		li.AppendChild(textNode(answer))
		answers.AppendChild(li)
	}
	section.AppendChild(answers)

	feedback := elem("code")
	feedback.AppendChild(textNode(s.Feedback()))
	section.AppendChild(feedback)

	w.body.AppendChild(section)
}

func (w *Writer) writeVideo(v *units.Video) {
	section := elem("section", attr(TypeAttr, "video"))
	section.AppendChild(w.headerTag(v))
	section.AppendChild(w.videoTag(v.Sources()))
	w.body.AppendChild(section)
}

// videoTag returns an <iframe> when a source points at a recognized
// streaming platform, else a <video> element with one <source> per
// playable file.
func (w *Writer) videoTag(sources []string) *html.Node {
	video := elem("video", html.Attribute{Key: "controls"})
	for _, source := range sources {
		if embed, ok := youtube.EmbedURL(source); ok {
			return elem("iframe", attr("src", embed))
		}
		ext := strings.ToLower(path.Ext(source))
		videoType, ok := videoTypes[ext]
		if !ok {
			w.diags.Warnf("unsupported video extension: %q", ext)
			continue
		}
		video.AppendChild(elem("source", attr("src", source), attr("type", "video/"+videoType)))
	}
	return video
}

// writeRawHTML re-parses the stored fragment and appends its nodes.
func (w *Writer) writeRawHTML(u *units.RawHTML) error {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(u.Contents()), context)
	if err != nil {
		return fmt.Errorf("parsing raw HTML contents: %w", err)
	}
	for _, n := range nodes {
		w.body.AppendChild(n)
	}
	return nil
}
