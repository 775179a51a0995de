// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package olx

import (
	"testing"

	"coursefmt/internal/diag"
	"coursefmt/internal/units"
)

func parseString(t *testing.T, contents string) []units.Unit {
	t.Helper()
	r, err := NewStringReader(contents, Options{})
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := r.readUnit(r.root)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestReadChapter(t *testing.T) {
	parsed := parseString(t, `<chapter display_name='hello world'>
    <sequential display_name='My little sequential' />
</chapter>`)
	chapter := parsed[0].(*units.Collection)
	if chapter.Title() != "hello world" {
		t.Errorf("title = %q", chapter.Title())
	}
	if chapter.Attributes()[TypeAttr] != "chapter" {
		t.Errorf("attributes = %v", chapter.Attributes())
	}
	sequential := chapter.Children()[0].(*units.Collection)
	if sequential.Title() != "My little sequential" {
		t.Errorf("child title = %q", sequential.Title())
	}
	if sequential.Attributes()[TypeAttr] != "sequential" {
		t.Errorf("child attributes = %v", sequential.Attributes())
	}
}

func TestReadVideoElement(t *testing.T) {
	parsed := parseString(t, "<video youtube_id_1_0='dQw4w9WgXcQ'><source src='myvideo.mp4'/></video>")
	video := parsed[0].(*units.Video)
	want := []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "myvideo.mp4"}
	if len(video.Sources()) != 2 || video.Sources()[0] != want[0] || video.Sources()[1] != want[1] {
		t.Errorf("sources = %v, want %v", video.Sources(), want)
	}
}

func TestReadVideoSpeedRatio(t *testing.T) {
	tests := []struct {
		name string
		attr string
	}{
		{"with decimals", "1.00:dQw4w9WgXcQ"},
		{"without decimals", "1:dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parseString(t, "<video youtube='"+tt.attr+"'></video>")
			video := parsed[0].(*units.Video)
			if len(video.Sources()) != 1 || video.Sources()[0] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
				t.Errorf("sources = %v", video.Sources())
			}
		})
	}
}

func TestReadInlineHTML(t *testing.T) {
	parsed := parseString(t, "<html><p>hello world!</p></html>")
	html := parsed[0].(*units.RawHTML)
	if html.Contents() != "<p>hello world!</p>" {
		t.Errorf("contents = %q", html.Contents())
	}
}

func TestReadProblemWithoutResponse(t *testing.T) {
	diags := diag.New()
	r, err := NewStringReader("<problem display_name='odd'><p>?</p></problem>", Options{Diags: diags})
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := r.readUnit(r.root)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 0 {
		t.Errorf("parsed = %v, want none", parsed)
	}
	if len(diags.Warnings()) != 1 {
		t.Errorf("warnings = %v", diags.Warnings())
	}
}

func TestReadMCQProblem(t *testing.T) {
	parsed := parseString(t, `<problem display_name="Quiz">
  <choiceresponse>
    <label>Capital of France?</label>
    <checkboxgroup>
      <choice correct="true" name="0">Paris</choice>
      <choice correct="false" name="1">London</choice>
    </checkboxgroup>
  </choiceresponse>
</problem>`)
	q := parsed[0].(*units.MultipleChoiceQuestion)
	if q.Kind() != units.KindMCQ || q.Title() != "Quiz" || q.Question() != "Capital of France?" {
		t.Errorf("q = %+v", q)
	}
	want := []units.Answer{{Text: "Paris", Correct: true}, {Text: "London", Correct: false}}
	for i, a := range q.Answers() {
		if a != want[i] {
			t.Errorf("answer %d = %+v, want %+v", i, a, want[i])
		}
	}
}

func TestReadFTQProblem(t *testing.T) {
	parsed := parseString(t, `<problem>
  <stringresponse answer="4">
    <label>2+2?</label>
    <additional_answer answer="four"/>
    <textline size="20"/>
  </stringresponse>
</problem>`)
	q := parsed[0].(*units.MultipleChoiceQuestion)
	if q.Kind() != units.KindFTQ {
		t.Fatalf("kind = %q", q.Kind())
	}
	if len(q.Answers()) != 2 || q.Answers()[0].Text != "4" || q.Answers()[1].Text != "four" {
		t.Errorf("answers = %v", q.Answers())
	}
}

func TestReadPoll(t *testing.T) {
	parsed := parseString(t, `<poll answers='[
    ["answer1", {"img": "", "img_alt": "", "label": "Answer1"}],
    ["answer2", {"img": "", "img_alt": "", "label": "Answer2"}]
]' display_name="Poll" feedback="Feedback Text." max_submissions="10" private_results="true" question="Poll Question" xblock-family="xblock.v1"></poll>`)
	poll := parsed[0].(*units.Survey)
	if poll.Title() != "Poll" {
		t.Errorf("title = %q", poll.Title())
	}
	if len(poll.Questions()) != 1 || poll.Questions()[0] != "Poll Question" {
		t.Errorf("questions = %v", poll.Questions())
	}
	if len(poll.Answers()) != 2 || poll.Answers()[0] != "Answer1" || poll.Answers()[1] != "Answer2" {
		t.Errorf("answers = %v", poll.Answers())
	}
	if poll.Feedback() != "Feedback Text." {
		t.Errorf("feedback = %q", poll.Feedback())
	}
	wantAttrs := map[string]string{
		"max_submissions":           "10",
		"private_results":           "true",
		units.SurveyFamilyAttribute: "xblock.v1",
	}
	for k, v := range wantAttrs {
		if poll.Attributes()[k] != v {
			t.Errorf("attribute %q = %q, want %q", k, poll.Attributes()[k], v)
		}
	}
}

func TestReadSurvey(t *testing.T) {
	parsed := parseString(t, `<survey answers='[
    ["answer1", "Answer1"],
    ["answer2", "Answer2"]
]' block_name="Survey" feedback="Feedback Text." max_submissions="10" private_results="true" questions='[
    ["question1", {"img": "", "img_alt": "", "label": "Question1"}],
    ["question2", {"img": "", "img_alt": "", "label": "Question2"}]
]' xblock-family="xblock.v1"></survey>`)
	survey := parsed[0].(*units.Survey)
	if survey.Title() != "Survey" {
		t.Errorf("title = %q", survey.Title())
	}
	if len(survey.Questions()) != 2 || survey.Questions()[1] != "Question2" {
		t.Errorf("questions = %v", survey.Questions())
	}
	if len(survey.Answers()) != 2 || survey.Answers()[0] != "Answer1" {
		t.Errorf("answers = %v", survey.Answers())
	}
	if survey.Feedback() != "Feedback Text." {
		t.Errorf("feedback = %q", survey.Feedback())
	}
}

func TestReadBadPollJSON(t *testing.T) {
	r, err := NewStringReader(`<poll answers='not json' question="?"/>`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.readUnit(r.root); err == nil {
		t.Fatal("expected a structural error for unparseable answers")
	}
}
