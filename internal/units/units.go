// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units defines the format-neutral course content tree.
//
// A course is a tree of units. Containers are Collections; everything else
// is a terminal leaf. Every unit except the root has a parent Collection,
// set exactly once when the unit is attached. Readers build the tree,
// writers walk it; it is never mutated in between.
package units

import "strings"

// Kind identifies a concrete unit type. The set of kinds is closed: writers
// dispatch on it with a total switch.
type Kind string

const (
	KindCollection Kind = "collection"
	KindCourse     Kind = "course"
	KindMCQ        Kind = "mcq"
	KindFTQ        Kind = "ftq"
	KindRawHTML    Kind = "rawhtml"
	KindVideo      Kind = "video"
	KindSurvey     Kind = "survey"
)

// Unit is a node in the course tree. All units have an optional title and
// string key/value attributes. The concrete implementations all live in
// this package; attach is unexported to keep the set closed and to make
// Collection.AddChild the only way to shape the tree.
type Unit interface {
	Kind() Kind
	Title() string
	Attributes() map[string]string
	Parent() *Collection
	Depth() int

	attach(parent *Collection) error
}

// base holds the fields shared by every unit.
type base struct {
	attributes map[string]string
	title      string
	parent     *Collection
}

// newBase copies the attributes so constructors that force keys (Survey)
// never mutate the caller's map.
func newBase(attributes map[string]string, title string) base {
	copied := make(map[string]string, len(attributes))
	for k, v := range attributes {
		copied[k] = v
	}
	return base{attributes: copied, title: title}
}

func (b *base) Title() string { return b.title }

func (b *base) Attributes() map[string]string { return b.attributes }

func (b *base) Parent() *Collection { return b.parent }

// Depth is 0 for the root and parent depth + 1 otherwise, computed by
// walking the parent chain.
func (b *base) Depth() int {
	if b.parent == nil {
		return 0
	}
	return b.parent.Depth() + 1
}

func (b *base) attach(parent *Collection) error {
	if b.parent != nil {
		return NewStructuralError("unit %q already has a parent", b.title)
	}
	b.parent = parent
	return nil
}

// Collection is a unit owning an ordered list of children. Child order is
// meaningful: serialization order and derived identifiers depend on it.
//
// A Course is a Collection marking the tree root; it carries no extra
// fields, only a distinct kind.
type Collection struct {
	base
	kind     Kind
	children []Unit
}

// NewCollection returns an empty container unit.
func NewCollection(attributes map[string]string, title string) *Collection {
	return &Collection{base: newBase(attributes, title), kind: KindCollection}
}

// NewCourse returns an empty top-level container unit.
func NewCourse(attributes map[string]string, title string) *Collection {
	return &Collection{base: newBase(attributes, title), kind: KindCourse}
}

func (c *Collection) Kind() Kind { return c.kind }

func (c *Collection) Children() []Unit { return c.children }

// AddChild attaches u as the last child. It is the only tree mutator.
// A unit is single-owned: attaching one that already has a parent is a
// StructuralError.
func (c *Collection) AddChild(u Unit) error {
	if err := u.attach(c); err != nil {
		return err
	}
	c.children = append(c.children, u)
	return nil
}

// indexOf returns the position of u among the children, or -1.
func (c *Collection) indexOf(u Unit) int {
	for i, child := range c.children {
		if child == u {
			return i
		}
	}
	return -1
}

// Answer is one option of a multiple choice question.
type Answer struct {
	Text    string
	Correct bool
}

// MultipleChoiceQuestion is a question with a fixed set of answers, each
// marked correct or not.
//
// A free text question is the same record with every answer correct: the
// first answer is the canonical one, the rest are additional accepted
// strings. It is distinguished only by its kind.
type MultipleChoiceQuestion struct {
	base
	kind     Kind
	question string
	answers  []Answer
}

// NewMultipleChoiceQuestion trims answer text at construction.
func NewMultipleChoiceQuestion(attributes map[string]string, title, question string, answers []Answer) *MultipleChoiceQuestion {
	trimmed := make([]Answer, len(answers))
	for i, a := range answers {
		trimmed[i] = Answer{Text: strings.TrimSpace(a.Text), Correct: a.Correct}
	}
	return &MultipleChoiceQuestion{
		base:     newBase(attributes, title),
		kind:     KindMCQ,
		question: question,
		answers:  trimmed,
	}
}

// NewFreeTextQuestion builds the free-text variant: all answers correct.
func NewFreeTextQuestion(attributes map[string]string, title, question string, answers []string) *MultipleChoiceQuestion {
	all := make([]Answer, len(answers))
	for i, a := range answers {
		all[i] = Answer{Text: strings.TrimSpace(a), Correct: true}
	}
	return &MultipleChoiceQuestion{
		base:     newBase(attributes, title),
		kind:     KindFTQ,
		question: question,
		answers:  all,
	}
}

func (q *MultipleChoiceQuestion) Kind() Kind { return q.kind }

func (q *MultipleChoiceQuestion) Question() string { return q.question }

func (q *MultipleChoiceQuestion) Answers() []Answer { return q.answers }

// RawHTML is inline flow content carried over verbatim from the source
// markup.
type RawHTML struct {
	base
	contents string
}

// NewRawHTML trims the contents at construction.
func NewRawHTML(attributes map[string]string, title, contents string) *RawHTML {
	return &RawHTML{base: newBase(attributes, title), contents: strings.TrimSpace(contents)}
}

func (h *RawHTML) Kind() Kind { return KindRawHTML }

func (h *RawHTML) Contents() string { return h.contents }

// Concatenate appends another raw unit's contents, joined by a newline.
// Adjacent raw nodes under the same parent are merged this way during
// parsing.
func (h *RawHTML) Concatenate(other *RawHTML) {
	h.contents += "\n" + other.contents
}

// Video is a leaf pointing at one or more video sources. Sources are URLs:
// direct media files or canonical watch-page URLs of a recognized
// streaming platform.
type Video struct {
	base
	sources []string
}

// NewVideo keeps sources in order, skipping exact duplicates (first
// occurrence wins).
func NewVideo(attributes map[string]string, title string, sources []string) *Video {
	var distinct []string
	seen := map[string]bool{}
	for _, s := range sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		distinct = append(distinct, s)
	}
	return &Video{base: newBase(attributes, title), sources: distinct}
}

func (v *Video) Kind() Kind { return KindVideo }

func (v *Video) Sources() []string { return v.sources }

// SurveyFamilyAttribute is the framework tag every survey carries.
const SurveyFamilyAttribute = "xblock-family"

// Survey is a structured feedback block: one or more question prompts with
// a common set of answer options. A single-question survey is a poll; only
// the OLX writer observes the difference.
type Survey struct {
	base
	questions []string
	answers   []string
	feedback  string
}

// NewSurvey forces the framework tag attribute.
func NewSurvey(attributes map[string]string, title string, questions, answers []string, feedback string) *Survey {
	s := &Survey{
		base:      newBase(attributes, title),
		questions: questions,
		answers:   answers,
		feedback:  feedback,
	}
	s.attributes[SurveyFamilyAttribute] = "xblock.v1"
	return s
}

func (s *Survey) Kind() Kind { return KindSurvey }

func (s *Survey) Questions() []string { return s.questions }

func (s *Survey) Answers() []string { return s.answers }

func (s *Survey) Feedback() string { return s.feedback }
