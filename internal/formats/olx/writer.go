// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package olx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"coursefmt/internal/diag"
	"coursefmt/internal/units"
	"coursefmt/internal/youtube"
)

// olxLadder maps unit depths to the OLX container hierarchy. Deeper
// collections get no file of their own; their titles become the display
// names of the leaf units below them.
var olxLadder = []string{"course", "chapter", "sequential", "vertical"}

// WriterOptions tunes writer behavior.
type WriterOptions struct {
	// DefaultOrg and DefaultCourse fill the course.xml attributes when
	// the course carries no olx-org or olx-course.
	DefaultOrg    string
	DefaultCourse string

	// Diags receives soft warnings. May be nil.
	Diags *diag.Collector
}

// file is one pending output: an XML document, or raw text for html
// companion files.
type file struct {
	path string
	doc  *etree.Document
	raw  string
}

// Writer accumulates one XML file per emitted unit, then flushes the lot
// under a target directory.
type Writer struct {
	opts  WriterOptions
	files []file

	// unitXML tracks the element created for each unit, so descendants
	// can append their url_name reference to the nearest emitted
	// ancestor.
	unitXML map[units.Unit]*etree.Element
}

func NewWriter(opts WriterOptions) *Writer {
	return &Writer{opts: opts, unitXML: map[units.Unit]*etree.Element{}}
}

// Write serializes the unit and, depth-first, its children.
func (w *Writer) Write(u units.Unit) error {
	w.writeUnit(u)
	if c, ok := u.(*units.Collection); ok {
		for _, child := range c.Children() {
			if err := w.Write(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeUnit(u units.Unit) {
	switch u.Kind() {
	case units.KindCourse:
		w.onCourse(u.(*units.Collection))
	case units.KindCollection:
		w.onCollection(u.(*units.Collection))
	case units.KindMCQ:
		w.onMultipleChoiceQuestion(u.(*units.MultipleChoiceQuestion))
	case units.KindFTQ:
		w.onFreeTextQuestion(u.(*units.MultipleChoiceQuestion))
	case units.KindRawHTML:
		w.onRawHTML(u.(*units.RawHTML))
	case units.KindVideo:
		w.onVideo(u.(*units.Video))
	case units.KindSurvey:
		w.onSurvey(u.(*units.Survey))
	default:
		panic(fmt.Sprintf("no OLX writer for unit kind %q", u.Kind()))
	}
}

// WriteTo flushes every accumulated file under rootDir, creating
// subdirectories as needed.
func (w *Writer) WriteTo(rootDir string) error {
	for _, f := range w.files {
		path := filepath.Join(rootDir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		var err error
		if f.doc != nil {
			f.doc.Indent(2)
			err = f.doc.WriteToFile(path)
		} else {
			err = os.WriteFile(path, []byte(f.raw+"\n"), 0o644)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// onCourse emits course.xml, whose org/course/url_name attributes come
// from the course's olx-* attributes or fall back to configured defaults.
func (w *Writer) onCourse(course *units.Collection) {
	attributes := map[string]string{
		"org":      w.opts.DefaultOrg,
		"course":   w.opts.DefaultCourse,
		"url_name": units.URLName(course),
	}
	if attributes["org"] == "" {
		attributes["org"] = "organization"
	}
	if attributes["course"] == "" {
		attributes["course"] = "course"
	}
	for _, name := range []string{"org", "course", "url_name"} {
		if v := course.Attributes()[AttrPrefix+name]; v != "" {
			attributes[name] = v
		} else {
			w.opts.Diags.Warnf(
				"top-level course does not have required attribute %q: defaulting to %q",
				AttrPrefix+name, attributes[name])
		}
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("course")
	for _, name := range []string{"org", "course", "url_name"} {
		root.CreateAttr(name, attributes[name])
	}
	w.files = append(w.files, file{path: "course.xml", doc: doc})
	w.unitXML[course] = root

	w.onCollection(course)
}

// onCollection emits the container file for a title unit, or nothing when
// the unit sits below the OLX hierarchy.
func (w *Writer) onCollection(c *units.Collection) {
	if c.Depth() >= len(olxLadder) {
		// Too deep for a container of its own. The title is borrowed
		// by the first emitted descendant instead.
		return
	}
	w.processUnit(c, olxLadder[c.Depth()])
}

func (w *Writer) onMultipleChoiceQuestion(q *units.MultipleChoiceQuestion) {
	problem := w.processUnit(q, "problem")
	response := problem.CreateElement("choiceresponse")
	response.CreateElement("label").SetText(q.Question())
	group := response.CreateElement("checkboxgroup")
	for i, answer := range q.Answers() {
		choice := group.CreateElement("choice")
		choice.CreateAttr("correct", strconv.FormatBool(answer.Correct))
		choice.CreateAttr("name", strconv.Itoa(i))
		choice.SetText(answer.Text)
	}
}

func (w *Writer) onFreeTextQuestion(q *units.MultipleChoiceQuestion) {
	problem := w.processUnit(q, "problem")
	response := problem.CreateElement("stringresponse")
	answers := q.Answers()
	// A question without answers still needs the attribute: the reader
	// turns an empty answer attribute back into an empty canonical answer.
	answer := ""
	if len(answers) > 0 {
		answer = answers[0].Text
	}
	response.CreateAttr("answer", answer)
	response.CreateElement("label").SetText(q.Question())
	if len(answers) > 1 {
		for _, extra := range answers[1:] {
			response.CreateElement("additional_answer").CreateAttr("answer", extra.Text)
		}
	}
	response.CreateElement("textline").CreateAttr("size", "20")
}

// onRawHTML emits an <html filename=.../> unit next to a companion
// html/<url_name>.html file holding the contents.
func (w *Writer) onRawHTML(u *units.RawHTML) {
	htmlEl := w.processUnit(u, "html")
	urlName := units.URLName(u)
	w.files = append(w.files, file{
		path: filepath.Join("html", urlName+".html"),
		raw:  u.Contents(),
	})
	htmlEl.CreateAttr("filename", urlName)
}

func (w *Writer) onVideo(v *units.Video) {
	videoEl := w.processUnit(v, "video")
	// An empty youtube id keeps the platform from picking up its stock
	// default video.
	videoEl.CreateAttr("youtube_id_1_0", "")
	for _, source := range v.Sources() {
		if id, ok := youtube.VideoID(source); ok {
			videoEl.CreateAttr("youtube_id_1_0", id)
		} else {
			videoEl.CreateElement("source").CreateAttr("src", source)
		}
	}
}

// onSurvey emits a poll when there is exactly one question, else a
// survey. Both encode their options as JSON attribute values.
func (w *Writer) onSurvey(s *units.Survey) {
	if len(s.Questions()) == 1 {
		poll := w.processUnit(s, "poll")
		w.copySurveyAttributes(poll, s)
		poll.CreateAttr("question", s.Questions()[0])
		poll.CreateAttr("answers", optionPairsJSON(s.Answers()))
		if s.Feedback() != "" {
			poll.CreateAttr("feedback", s.Feedback())
		}
		return
	}

	survey := w.processUnit(s, "survey")
	// Surveys name their title differently from every other block type.
	survey.RemoveAttr("display_name")
	survey.CreateAttr("block_name", s.Title())
	w.copySurveyAttributes(survey, s)
	survey.CreateAttr("questions", optionPairsJSON(s.Questions()))
	survey.CreateAttr("answers", labelPairsJSON(s.Answers()))
	if s.Feedback() != "" {
		survey.CreateAttr("feedback", s.Feedback())
	}
}

func (w *Writer) copySurveyAttributes(el *etree.Element, s *units.Survey) {
	for _, key := range []string{"max_submissions", "private_results", units.SurveyFamilyAttribute} {
		if v := s.Attributes()[key]; v != "" {
			el.CreateAttr(key, v)
		}
	}
}

// processUnit creates <tag>/<url_name>.xml for the unit and appends a
// <tag url_name=.../> reference to the nearest ancestor that got a file
// of its own.
func (w *Writer) processUnit(u units.Unit, tag string) *etree.Element {
	urlName := units.URLName(u)

	displayName := u.Title()
	if displayName == "" && u.Parent() != nil {
		displayName = u.Parent().Title()
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(tag)
	root.CreateAttr("display_name", displayName)
	w.files = append(w.files, file{path: filepath.Join(tag, urlName+".xml"), doc: doc})
	w.unitXML[u] = root

	for parent := u.Parent(); parent != nil; parent = parent.Parent() {
		if parentXML, ok := w.unitXML[parent]; ok {
			parentXML.CreateElement(tag).CreateAttr("url_name", urlName)
			break
		}
	}
	return root
}

func optionPairsJSON(labels []string) string {
	pairs := make([][]any, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, []any{strings.ToLower(label), pollOption{Label: label}})
	}
	return marshalPairs(pairs)
}

func labelPairsJSON(labels []string) string {
	pairs := make([][]any, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, []any{strings.ToLower(label), label})
	}
	return marshalPairs(pairs)
}

func marshalPairs(pairs [][]any) string {
	out, err := json.MarshalIndent(pairs, "", "    ")
	if err != nil {
		// Pairs of strings and plain structs always marshal.
		panic(err)
	}
	return string(out)
}
