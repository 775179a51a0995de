// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package olx reads and writes Open Learning XML: a course split across
// one XML file per unit, tied together by url_name references.
package olx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"coursefmt/internal/diag"
	"coursefmt/internal/formats"
	"coursefmt/internal/units"
	"coursefmt/internal/youtube"
)

// AttrPrefix marks unit attributes carried over from OLX, so they survive
// a round trip through the other dialects.
const AttrPrefix = "olx-"

// TypeAttr records the OLX tag a collection was read from.
const TypeAttr = "olx-type"

// youtubeSpeedRe matches the single-speed entry of a legacy youtube
// attribute, e.g. "1.00:dQw4w9WgXcQ".
var youtubeSpeedRe = regexp.MustCompile(`^1(\.00)?:(.+)$`)

// Options tunes reader behavior.
type Options struct {
	// Diags receives soft warnings. May be nil.
	Diags *diag.Collector
}

// Reader loads a course from an OLX directory rooted at course.xml.
// Elements carrying a url_name are resolved against their companion file
// <tag>/<url_name>.xml.
type Reader struct {
	rootDir string
	root    *etree.Element
	opts    Options
}

// Open loads course.xml from an OLX directory.
func Open(rootDir string, opts Options) (*Reader, error) {
	doc := etree.NewDocument()
	path := filepath.Join(rootDir, "course.xml")
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "course" {
		return nil, units.NewStructuralError("badly formatted course.xml file: missing <course> element")
	}
	return &Reader{rootDir: rootDir, root: root, opts: opts}, nil
}

// NewStringReader reads a course from a single in-memory XML document.
// References to companion files are not resolved.
func NewStringReader(contents string, opts Options) (*Reader, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(contents); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, units.NewStructuralError("empty XML document")
	}
	return &Reader{root: doc.Root(), opts: opts}, nil
}

func (r *Reader) Read() (*units.Collection, error) {
	parsed, err := r.readUnit(r.root)
	if err != nil {
		return nil, err
	}
	if len(parsed) != 1 {
		return nil, units.NewStructuralError("expected a single course at the OLX root, got %d units", len(parsed))
	}
	return formats.AsCourse(parsed[0])
}

// readUnit resolves a url_name reference, then dispatches on the element
// tag. Unrecognized tags yield nothing.
func (r *Reader) readUnit(el *etree.Element) ([]units.Unit, error) {
	el, err := r.resolve(el)
	if err != nil {
		return nil, err
	}

	switch el.Tag {
	case "course", "chapter", "sequential", "vertical":
		return r.readCollection(el)
	case "problem":
		return r.readProblem(el)
	case "html":
		return r.readHTML(el)
	case "video":
		return r.readVideo(el)
	case "poll":
		return r.readPoll(el)
	case "survey":
		return r.readSurvey(el)
	default:
		r.opts.Diags.Warnf("unsupported OLX element skipped: <%s>", el.Tag)
		return nil, nil
	}
}

// resolve replaces an element carrying a url_name with the root of its
// companion file <tag>/<url_name>.xml. Attributes on the referencing
// element win over the companion's. A missing companion is reported but
// not fatal.
func (r *Reader) resolve(el *etree.Element) (*etree.Element, error) {
	if r.rootDir == "" {
		return el, nil
	}
	urlName := el.SelectAttrValue("url_name", "")
	if urlName == "" {
		return el, nil
	}

	path := filepath.Join(r.rootDir, el.Tag, urlName+".xml")
	if _, err := os.Stat(path); err != nil {
		r.opts.Diags.Warnf("failed to load unit, file does not exist: %s", path)
		return el, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	resolved := doc.FindElement("//" + el.Tag)
	if resolved == nil {
		return nil, units.NewStructuralError("element with name %q could not be found in %s", el.Tag, path)
	}
	resolved.CreateAttr("url_name", urlName)
	for _, a := range el.Attr {
		resolved.CreateAttr(a.Key, a.Value)
	}
	return resolved, nil
}

func (r *Reader) readCollection(el *etree.Element) ([]units.Unit, error) {
	title := el.SelectAttrValue("display_name", "")
	var unit *units.Collection
	if el.Tag == "course" {
		unit = units.NewCourse(unitAttributes(el), title)
	} else {
		unit = units.NewCollection(unitAttributes(el), title)
	}
	for _, child := range el.ChildElements() {
		parsed, err := r.readUnit(child)
		if err != nil {
			return nil, err
		}
		for _, u := range parsed {
			if err := unit.AddChild(u); err != nil {
				return nil, err
			}
		}
	}
	return []units.Unit{unit}, nil
}

// readProblem recognizes checkbox problems and text input problems.
func (r *Reader) readProblem(el *etree.Element) ([]units.Unit, error) {
	title := el.SelectAttrValue("display_name", "")
	question := ""
	if label := el.FindElement(".//label"); label != nil {
		question = strings.TrimSpace(label.Text())
	}

	if response := el.FindElement(".//choiceresponse"); response != nil {
		var answers []units.Answer
		for _, choice := range response.FindElements(".//choice") {
			answers = append(answers, units.Answer{
				Text:    strings.TrimSpace(choice.Text()),
				Correct: strings.EqualFold(choice.SelectAttrValue("correct", ""), "true"),
			})
		}
		return []units.Unit{units.NewMultipleChoiceQuestion(nil, title, question, answers)}, nil
	}

	if response := el.FindElement(".//stringresponse"); response != nil {
		answers := []string{response.SelectAttrValue("answer", "")}
		for _, extra := range response.FindElements(".//additional_answer") {
			answers = append(answers, extra.SelectAttrValue("answer", ""))
		}
		return []units.Unit{units.NewFreeTextQuestion(nil, title, question, answers)}, nil
	}

	r.opts.Diags.Warnf("problem %q has neither a choiceresponse nor a stringresponse: skipping", title)
	return nil, nil
}

// readHTML loads the unit contents from the companion html file when a
// filename attribute points to one, else from the inline children.
func (r *Reader) readHTML(el *etree.Element) ([]units.Unit, error) {
	title := el.SelectAttrValue("display_name", "")

	if filename := el.SelectAttrValue("filename", ""); filename != "" && r.rootDir != "" {
		path := filepath.Join(r.rootDir, "html", filename+".html")
		contents, err := os.ReadFile(path)
		if err != nil {
			r.opts.Diags.Warnf("failed to load html unit contents, file does not exist: %s", path)
		} else {
			return []units.Unit{units.NewRawHTML(nil, title, string(contents))}, nil
		}
	}

	return []units.Unit{units.NewRawHTML(nil, title, innerXML(el))}, nil
}

func (r *Reader) readVideo(el *etree.Element) ([]units.Unit, error) {
	var sources []string
	if id := el.SelectAttrValue("youtube_id_1_0", ""); id != "" {
		sources = append(sources, youtube.WatchURL(id))
	} else if speeds := el.SelectAttrValue("youtube", ""); speeds != "" {
		// Legacy format: 1.00:<id>,2.5:<id>,... Only the single-speed
		// entry matters.
		if m := youtubeSpeedRe.FindStringSubmatch(speeds); m != nil {
			sources = append(sources, youtube.WatchURL(m[2]))
		}
	}
	for _, source := range el.FindElements(".//source") {
		if src := source.SelectAttrValue("src", ""); src != "" {
			sources = append(sources, src)
		}
	}
	title := el.SelectAttrValue("display_name", "")
	return []units.Unit{units.NewVideo(unitAttributes(el), title, sources)}, nil
}

// pollOption is the object half of a poll answer or survey question entry.
type pollOption struct {
	Img    string `json:"img"`
	ImgAlt string `json:"img_alt"`
	Label  string `json:"label"`
}

// readPoll maps a single-question poll onto a survey unit.
func (r *Reader) readPoll(el *etree.Element) ([]units.Unit, error) {
	answers, err := parseOptionPairs(el.SelectAttrValue("answers", "[]"))
	if err != nil {
		return nil, units.NewStructuralError("badly formatted poll answers: %v", err)
	}
	questions := []string{el.SelectAttrValue("question", "")}
	title := el.SelectAttrValue("display_name", "")
	feedback := el.SelectAttrValue("feedback", "")
	attributes := surveyAttributes(el, "display_name", "question", "answers", "feedback")
	return []units.Unit{units.NewSurvey(attributes, title, questions, answers, feedback)}, nil
}

func (r *Reader) readSurvey(el *etree.Element) ([]units.Unit, error) {
	questions, err := parseOptionPairs(el.SelectAttrValue("questions", "[]"))
	if err != nil {
		return nil, units.NewStructuralError("badly formatted survey questions: %v", err)
	}
	answers, err := parseLabelPairs(el.SelectAttrValue("answers", "[]"))
	if err != nil {
		return nil, units.NewStructuralError("badly formatted survey answers: %v", err)
	}
	title := el.SelectAttrValue("block_name", "")
	feedback := el.SelectAttrValue("feedback", "")
	attributes := surveyAttributes(el, "block_name", "questions", "answers", "feedback")
	return []units.Unit{units.NewSurvey(attributes, title, questions, answers, feedback)}, nil
}

// parseOptionPairs extracts labels from JSON of the form
// [["id", {"img": ..., "img_alt": ..., "label": ...}], ...].
func parseOptionPairs(src string) ([]string, error) {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal([]byte(src), &pairs); err != nil {
		return nil, err
	}
	var labels []string
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("expected [id, option] pairs, got %d elements", len(pair))
		}
		var option pollOption
		if err := json.Unmarshal(pair[1], &option); err != nil {
			return nil, err
		}
		labels = append(labels, option.Label)
	}
	return labels, nil
}

// parseLabelPairs extracts labels from JSON of the form
// [["id", "label"], ...].
func parseLabelPairs(src string) ([]string, error) {
	var pairs [][]string
	if err := json.Unmarshal([]byte(src), &pairs); err != nil {
		return nil, err
	}
	var labels []string
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("expected [id, label] pairs, got %d elements", len(pair))
		}
		labels = append(labels, pair[1])
	}
	return labels, nil
}

// unitAttributes carries every OLX attribute over to the unit, prefixed,
// plus the element tag itself.
func unitAttributes(el *etree.Element) map[string]string {
	attributes := map[string]string{}
	for _, a := range el.Attr {
		attributes[AttrPrefix+a.Key] = a.Value
	}
	attributes[TypeAttr] = el.Tag
	return attributes
}

// surveyAttributes copies the element attributes that are not consumed by
// the survey fields themselves. Unlike collection attributes they stay
// unprefixed, so they round-trip through the flat dialect's allow-list.
func surveyAttributes(el *etree.Element, consumed ...string) map[string]string {
	skip := map[string]bool{"url_name": true}
	for _, key := range consumed {
		skip[key] = true
	}
	attributes := map[string]string{}
	for _, a := range el.Attr {
		if !skip[a.Key] {
			attributes[a.Key] = a.Value
		}
	}
	return attributes
}

// innerXML serializes the element's children, one per line.
func innerXML(el *etree.Element) string {
	var parts []string
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.Element:
			doc := etree.NewDocument()
			doc.SetRoot(t.Copy())
			s, err := doc.WriteToString()
			if err != nil {
				continue
			}
			parts = append(parts, strings.TrimSpace(s))
		case *etree.CharData:
			if s := strings.TrimSpace(t.Data); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n")
}
