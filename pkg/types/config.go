package types

// MCQMode selects how malformed multiple-choice answers are handled.
type MCQMode string

const (
	// MCQStrict rejects answers that carry no correctness marker.
	MCQStrict MCQMode = "strict"
	// MCQLenient falls back to raw passthrough of the whole block.
	MCQLenient MCQMode = "lenient"
)

// MarkdownBackend identifies the Markdown-to-HTML translation tool.
type MarkdownBackend string

const (
	// BackendPandoc shells out to the pandoc binary. Required for writing
	// Markdown.
	BackendPandoc MarkdownBackend = "pandoc"
	// BackendGoldmark renders Markdown in-process; read direction only.
	BackendGoldmark MarkdownBackend = "goldmark"
)

// ConvertConfig holds settings for a conversion run.
type ConvertConfig struct {
	// MCQMode is strict or lenient (default strict).
	MCQMode MCQMode `json:"mcq_mode" yaml:"mcq_mode"`

	// MarkdownBackend selects pandoc or goldmark for reading Markdown
	// (default pandoc).
	MarkdownBackend MarkdownBackend `json:"markdown_backend" yaml:"markdown_backend"`

	// PandocBin is the pandoc binary path (default: "pandoc" on PATH).
	PandocBin string `json:"pandoc_bin" yaml:"pandoc_bin"`

	// DefaultOrg is the organization written to course.xml when the course
	// carries none.
	DefaultOrg string `json:"default_org" yaml:"default_org"`

	// DefaultCourse is the course slug written to course.xml when the
	// course carries none.
	DefaultCourse string `json:"default_course" yaml:"default_course"`
}

// DefaultConvertConfig returns the documented defaults.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		MCQMode:         MCQStrict,
		MarkdownBackend: BackendPandoc,
		PandocBin:       "pandoc",
		DefaultOrg:      "organization",
		DefaultCourse:   "course",
	}
}
