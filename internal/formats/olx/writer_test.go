// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package olx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursefmt/internal/diag"
	"coursefmt/internal/units"
)

func buildCourse(title string) *units.Collection {
	return units.NewCourse(map[string]string{
		"olx-org":      "testorg",
		"olx-course":   "testcourse",
		"olx-url_name": "testrun",
	}, title)
}

func TestWriteCourseFiles(t *testing.T) {
	w := NewWriter(WriterOptions{})
	if err := w.Write(buildCourse("")); err != nil {
		t.Fatal(err)
	}
	if len(w.files) != 2 {
		t.Fatalf("files = %d, want course.xml and its companion", len(w.files))
	}
	if w.files[0].path != "course.xml" {
		t.Errorf("first file = %q", w.files[0].path)
	}
	root := w.files[0].doc.Root()
	if root.SelectAttrValue("org", "") != "testorg" ||
		root.SelectAttrValue("course", "") != "testcourse" ||
		root.SelectAttrValue("url_name", "") != "testrun" {
		t.Errorf("course.xml attributes = %v", root.Attr)
	}
	if w.files[1].path != filepath.Join("course", "testrun.xml") {
		t.Errorf("companion file = %q", w.files[1].path)
	}
}

func TestWriteCourseDefaults(t *testing.T) {
	diags := diag.New()
	w := NewWriter(WriterOptions{DefaultOrg: "myorg", Diags: diags})
	if err := w.Write(units.NewCourse(nil, "untagged")); err != nil {
		t.Fatal(err)
	}
	root := w.files[0].doc.Root()
	if root.SelectAttrValue("org", "") != "myorg" {
		t.Errorf("org = %q", root.SelectAttrValue("org", ""))
	}
	if root.SelectAttrValue("course", "") != "course" {
		t.Errorf("course = %q", root.SelectAttrValue("course", ""))
	}
	if len(diags.Warnings()) != 3 {
		t.Errorf("warnings = %v, want one per defaulted attribute", diags.Warnings())
	}
}

func TestWriteVideoYouTubeID(t *testing.T) {
	w := NewWriter(WriterOptions{})
	video := units.NewVideo(nil, "", []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "myvideo.mp4"})
	if err := w.Write(video); err != nil {
		t.Fatal(err)
	}
	root := w.files[0].doc.Root()
	if got := root.SelectAttrValue("youtube_id_1_0", ""); got != "dQw4w9WgXcQ" {
		t.Errorf("youtube_id_1_0 = %q", got)
	}
	sources := root.FindElements(".//source")
	if len(sources) != 1 || sources[0].SelectAttrValue("src", "") != "myvideo.mp4" {
		t.Errorf("sources = %v", sources)
	}
}

// A collection nested below the vertical level gets no file; its title
// becomes the display name of the unit below it, and the reference lands
// on the vertical.
func TestWriteBelowLadder(t *testing.T) {
	course := buildCourse("course")
	chapter := units.NewCollection(nil, "chapter")
	sequential := units.NewCollection(nil, "sequential")
	vertical := units.NewCollection(nil, "vertical")
	videoTitle := units.NewCollection(nil, "video")
	video := units.NewVideo(nil, "", nil)
	links := []struct {
		parent *units.Collection
		child  units.Unit
	}{
		{course, chapter},
		{chapter, sequential},
		{sequential, vertical},
		{vertical, videoTitle},
		{videoTitle, video},
	}
	for _, link := range links {
		if err := link.parent.AddChild(link.child); err != nil {
			t.Fatal(err)
		}
	}

	w := NewWriter(WriterOptions{})
	if err := w.Write(course); err != nil {
		t.Fatal(err)
	}
	if len(w.files) != 6 {
		t.Fatalf("files = %d, want 6", len(w.files))
	}

	videoFile := w.files[5]
	if !strings.HasPrefix(videoFile.path, "video"+string(os.PathSeparator)) {
		t.Errorf("video file = %q", videoFile.path)
	}
	if got := videoFile.doc.Root().SelectAttrValue("display_name", ""); got != "video" {
		t.Errorf("display_name = %q, want the borrowed title", got)
	}

	verticalXML := w.unitXML[vertical]
	if ref := verticalXML.SelectElement("video"); ref == nil {
		t.Error("vertical carries no video reference")
	}
}

func TestWriteRawHTMLCompanion(t *testing.T) {
	w := NewWriter(WriterOptions{})
	html := units.NewRawHTML(nil, "Hello", "<p>hello</p>")
	if err := w.Write(html); err != nil {
		t.Fatal(err)
	}
	if len(w.files) != 2 {
		t.Fatalf("files = %d, want the unit and its companion", len(w.files))
	}

	urlName := units.URLName(html)
	companion := w.files[1]
	if companion.path != filepath.Join("html", urlName+".html") {
		t.Errorf("companion path = %q", companion.path)
	}
	if companion.raw != "<p>hello</p>" {
		t.Errorf("companion contents = %q", companion.raw)
	}
	if got := w.files[0].doc.Root().SelectAttrValue("filename", ""); got != urlName {
		t.Errorf("filename = %q, want %q", got, urlName)
	}
}

// A free text question can reach the writer with no answers at all: the
// flat dialect requires a list element but not list items. The emitted
// stringresponse carries an empty answer attribute and nothing extra.
func TestWriteFTQWithoutAnswers(t *testing.T) {
	w := NewWriter(WriterOptions{})
	q := units.NewFreeTextQuestion(nil, "", "Name a prime number.", nil)
	if err := w.Write(q); err != nil {
		t.Fatal(err)
	}

	root := w.files[0].doc.Root()
	response := root.SelectElement("stringresponse")
	if response == nil {
		t.Fatal("problem carries no stringresponse")
	}
	if attr := response.SelectAttr("answer"); attr == nil || attr.Value != "" {
		t.Errorf("answer attribute = %v, want empty", attr)
	}
	if extras := response.FindElements(".//additional_answer"); len(extras) != 0 {
		t.Errorf("additional_answer elements = %d, want 0", len(extras))
	}
}

func TestWritePoll(t *testing.T) {
	w := NewWriter(WriterOptions{})
	survey := units.NewSurvey(
		map[string]string{"private_results": "true", "max_submissions": "10"},
		"Poll", []string{"Poll Question"}, []string{"Answer1", "Answer2"}, "Feedback Text.")
	if err := w.Write(survey); err != nil {
		t.Fatal(err)
	}

	root := w.files[0].doc.Root()
	if root.Tag != "poll" {
		t.Fatalf("tag = %q, want poll for a single question", root.Tag)
	}
	for key, want := range map[string]string{
		"display_name":              "Poll",
		"question":                  "Poll Question",
		"feedback":                  "Feedback Text.",
		"max_submissions":           "10",
		"private_results":           "true",
		units.SurveyFamilyAttribute: "xblock.v1",
	} {
		if got := root.SelectAttrValue(key, ""); got != want {
			t.Errorf("attribute %q = %q, want %q", key, got, want)
		}
	}

	var answers [][]json.RawMessage
	if err := json.Unmarshal([]byte(root.SelectAttrValue("answers", "")), &answers); err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 {
		t.Fatalf("answers = %v", answers)
	}
	var id string
	if err := json.Unmarshal(answers[0][0], &id); err != nil {
		t.Fatal(err)
	}
	if id != "answer1" {
		t.Errorf("first answer id = %q", id)
	}
	var option pollOption
	if err := json.Unmarshal(answers[0][1], &option); err != nil {
		t.Fatal(err)
	}
	if option.Label != "Answer1" || option.Img != "" {
		t.Errorf("first option = %+v", option)
	}
}

func TestWriteSurvey(t *testing.T) {
	w := NewWriter(WriterOptions{})
	survey := units.NewSurvey(nil, "Survey",
		[]string{"Question1", "Question2"}, []string{"Answer1", "Answer2"}, "")
	if err := w.Write(survey); err != nil {
		t.Fatal(err)
	}

	root := w.files[0].doc.Root()
	if root.Tag != "survey" {
		t.Fatalf("tag = %q, want survey for multiple questions", root.Tag)
	}
	if root.SelectAttrValue("block_name", "") != "Survey" {
		t.Errorf("block_name = %q", root.SelectAttrValue("block_name", ""))
	}
	if root.SelectAttr("display_name") != nil {
		t.Error("survey should not carry display_name")
	}

	var answers [][]string
	if err := json.Unmarshal([]byte(root.SelectAttrValue("answers", "")), &answers); err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 || answers[0][0] != "answer1" || answers[0][1] != "Answer1" {
		t.Errorf("answers = %v", answers)
	}

	var questions [][]json.RawMessage
	if err := json.Unmarshal([]byte(root.SelectAttrValue("questions", "")), &questions); err != nil {
		t.Fatal(err)
	}
	if len(questions) != 2 {
		t.Errorf("questions = %v", questions)
	}
}

// A course written to disk reads back with the same shape and contents.
func TestDirectoryRoundTrip(t *testing.T) {
	course := buildCourse("My Course")
	chapter := units.NewCollection(nil, "Chapter 1")
	if err := course.AddChild(chapter); err != nil {
		t.Fatal(err)
	}
	sequential := units.NewCollection(nil, "Lesson 1")
	if err := chapter.AddChild(sequential); err != nil {
		t.Fatal(err)
	}
	vertical := units.NewCollection(nil, "Unit 1")
	if err := sequential.AddChild(vertical); err != nil {
		t.Fatal(err)
	}
	if err := vertical.AddChild(units.NewRawHTML(nil, "Intro", "<p>hello</p>")); err != nil {
		t.Fatal(err)
	}
	if err := vertical.AddChild(units.NewMultipleChoiceQuestion(nil, "Quiz", "Capital of France?",
		[]units.Answer{{Text: "Paris", Correct: true}, {Text: "London", Correct: false}})); err != nil {
		t.Fatal(err)
	}
	if err := vertical.AddChild(units.NewVideo(nil, "Clip",
		[]string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"})); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	w := NewWriter(WriterOptions{})
	if err := w.Write(course); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTo(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "course.xml")); err != nil {
		t.Fatal(err)
	}

	r, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}

	if got.Title() != "My Course" {
		t.Errorf("title = %q", got.Title())
	}
	if got.Attributes()["olx-org"] != "testorg" {
		t.Errorf("attributes = %v", got.Attributes())
	}

	gotChapter := got.Children()[0].(*units.Collection)
	gotSequential := gotChapter.Children()[0].(*units.Collection)
	gotVertical := gotSequential.Children()[0].(*units.Collection)
	if gotChapter.Title() != "Chapter 1" || gotSequential.Title() != "Lesson 1" || gotVertical.Title() != "Unit 1" {
		t.Errorf("containers = %q / %q / %q", gotChapter.Title(), gotSequential.Title(), gotVertical.Title())
	}
	if len(gotVertical.Children()) != 3 {
		t.Fatalf("vertical children = %d, want 3", len(gotVertical.Children()))
	}

	html := gotVertical.Children()[0].(*units.RawHTML)
	if html.Contents() != "<p>hello</p>" || html.Title() != "Intro" {
		t.Errorf("html = %q titled %q", html.Contents(), html.Title())
	}

	q := gotVertical.Children()[1].(*units.MultipleChoiceQuestion)
	if q.Question() != "Capital of France?" || !q.Answers()[0].Correct || q.Answers()[1].Correct {
		t.Errorf("question = %+v", q)
	}

	video := gotVertical.Children()[2].(*units.Video)
	if len(video.Sources()) != 1 || video.Sources()[0] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("video sources = %v", video.Sources())
	}
}

func TestWriteMissingReferenceWarns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "course.xml"),
		[]byte(`<course org="o" course="c" url_name="missing"/>`), 0o644); err != nil {
		t.Fatal(err)
	}
	diags := diag.New()
	r, err := Open(dir, Options{Diags: diags})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(); err != nil {
		t.Fatal(err)
	}
	if len(diags.Warnings()) == 0 {
		t.Error("expected a warning for the dangling url_name reference")
	}
}
