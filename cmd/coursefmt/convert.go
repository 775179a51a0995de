// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"coursefmt/internal/diag"
	"coursefmt/internal/formats"
	htmlformat "coursefmt/internal/formats/html"
	mdformat "coursefmt/internal/formats/md"
	olxformat "coursefmt/internal/formats/olx"
	"coursefmt/internal/pandoc"
	"coursefmt/internal/units"
	"coursefmt/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT OUTPUT",
	Short: "Convert a course from one dialect to another",
	Long: `Convert reads a course from INPUT and writes it to OUTPUT. Formats are
detected from the paths (.html, .md, or a directory for OLX) and can be
forced with --from and --to.

Markdown is read through the configured backend (pandoc by default, or
goldmark for an in-process alternative); writing Markdown always requires
pandoc on the PATH.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		from, err := resolveFormat(cmd, "from", input)
		if err != nil {
			return err
		}
		to, err := resolveFormat(cmd, "to", output)
		if err != nil {
			return err
		}

		cfg := loadConvertConfig()
		diags := diag.New()
		verbosity, _ := cmd.Flags().GetCount("verbose")
		defer diags.Print(os.Stderr, verbosity)

		course, err := readCourse(input, from, cfg, diags)
		if err != nil {
			return err
		}
		if err := writeCourse(course, output, to, cfg, diags); err != nil {
			return err
		}

		if report, _ := cmd.Flags().GetString("report"); report != "" {
			if err := writeReport(report, input, output, from, to, diags); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("from", "f", "", "input format: html, md or olx (default: detected from INPUT)")
	convertCmd.Flags().StringP("to", "t", "", "output format: html, md or olx (default: detected from OUTPUT)")
	convertCmd.Flags().CountP("verbose", "v", "raise diagnostic verbosity (repeatable)")
	convertCmd.Flags().String("report", "", "write a YAML conversion report to this file")

	rootCmd.AddCommand(convertCmd)
}

// resolveFormat takes the explicit format flag when given, else detects
// the format from the path.
func resolveFormat(cmd *cobra.Command, flag, path string) (formats.Format, error) {
	if name, _ := cmd.Flags().GetString(flag); name != "" {
		return formats.Parse(name)
	}
	return formats.Detect(path)
}

func loadConvertConfig() types.ConvertConfig {
	cfg := types.DefaultConvertConfig()
	if v := viper.GetString("mcq_mode"); v != "" {
		cfg.MCQMode = types.MCQMode(v)
	}
	if v := viper.GetString("markdown_backend"); v != "" {
		cfg.MarkdownBackend = types.MarkdownBackend(v)
	}
	if v := viper.GetString("pandoc_bin"); v != "" {
		cfg.PandocBin = v
	}
	if v := viper.GetString("default_org"); v != "" {
		cfg.DefaultOrg = v
	}
	if v := viper.GetString("default_course"); v != "" {
		cfg.DefaultCourse = v
	}
	return cfg
}

func markdownConverter(cfg types.ConvertConfig) (mdformat.Converter, error) {
	switch cfg.MarkdownBackend {
	case types.BackendPandoc, "":
		return pandoc.New(cfg.PandocBin), nil
	case types.BackendGoldmark:
		return mdformat.NewGoldmarkConverter(), nil
	}
	return nil, fmt.Errorf("unknown markdown backend %q: expected pandoc or goldmark", cfg.MarkdownBackend)
}

func readCourse(input string, from formats.Format, cfg types.ConvertConfig, diags *diag.Collector) (*units.Collection, error) {
	htmlOpts := htmlformat.Options{MCQMode: cfg.MCQMode, Diags: diags}

	var reader formats.Reader
	switch from {
	case formats.FormatHTML:
		r, err := htmlformat.Open(input, htmlOpts)
		if err != nil {
			return nil, err
		}
		reader = r
	case formats.FormatMD:
		conv, err := markdownConverter(cfg)
		if err != nil {
			return nil, err
		}
		r, err := mdformat.Open(input, conv, htmlOpts)
		if err != nil {
			return nil, err
		}
		reader = r
	case formats.FormatOLX:
		r, err := olxformat.Open(input, olxformat.Options{Diags: diags})
		if err != nil {
			return nil, err
		}
		reader = r
	default:
		return nil, fmt.Errorf("no reader for format %q", from)
	}
	return reader.Read()
}

func writeCourse(course *units.Collection, output string, to formats.Format, cfg types.ConvertConfig, diags *diag.Collector) error {
	var writer formats.Writer
	switch to {
	case formats.FormatHTML:
		writer = htmlformat.NewWriter(diags)
	case formats.FormatMD:
		// Writing always goes through pandoc: goldmark has no
		// HTML-to-Markdown direction.
		writer = mdformat.NewWriter(pandoc.New(cfg.PandocBin), diags)
	case formats.FormatOLX:
		writer = olxformat.NewWriter(olxformat.WriterOptions{
			DefaultOrg:    cfg.DefaultOrg,
			DefaultCourse: cfg.DefaultCourse,
			Diags:         diags,
		})
	default:
		return fmt.Errorf("no writer for format %q", to)
	}
	if err := writer.Write(course); err != nil {
		return err
	}
	return writer.WriteTo(output)
}

// conversionReport is the YAML document written by --report.
type conversionReport struct {
	Input    string   `yaml:"input"`
	Output   string   `yaml:"output"`
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Warnings []string `yaml:"warnings"`
}

func writeReport(path, input, output string, from, to formats.Format, diags *diag.Collector) error {
	report := conversionReport{
		Input:    input,
		Output:   output,
		From:     string(from),
		To:       string(to),
		Warnings: diags.Warnings(),
	}
	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
