// Package cli implements the doctoc command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/doctoc/internal/config"
	"github.com/dgallion1/doctoc/internal/pipeline"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	configFile      string
	name            string
	format          string
	tags            []string
	ignoredHeadings []string
	ignoredElements []string
	unordered       bool
	noWrap          bool
	navClass        string
	verbose         bool
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the doctoc command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "doctoc [file|-]",
		Short: "Generate a table of contents from document headings",
		Long: `doctoc reads an HTML, Markdown, DOCX or PDF document and prints a nested
table of contents built from its headings.

Reading from stdin ("-" or no argument) requires --name so the input
format can be chosen by extension.

Environment Variables:
  DOCTOC_CONFIG  YAML file with default tags, ignored selectors and markup options`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", os.Getenv("DOCTOC_CONFIG"), "YAML config file with TOC defaults")
	f.StringVar(&opts.name, "name", "", "file name used to pick the format when reading stdin")
	f.StringVarP(&opts.format, "format", "f", "html", "output format: html, json or yaml")
	f.StringSliceVarP(&opts.tags, "tags", "t", nil, "heading selectors to include (default h2,h3,h4)")
	f.StringArrayVar(&opts.ignoredHeadings, "ignore-heading", nil, "skip headings matching this selector (repeatable)")
	f.StringArrayVar(&opts.ignoredElements, "ignore-element", nil, "drop elements matching this selector from heading text (repeatable)")
	f.BoolVar(&opts.unordered, "ul", false, "use <ul> instead of <ol>")
	f.BoolVar(&opts.noWrap, "no-wrap", false, "print the bare list without the <nav> container")
	f.StringVar(&opts.navClass, "nav-class", "", "class of the <nav> container (default \"toc\")")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	switch opts.format {
	case "html", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	tocCfg, err := resolveTOC(cmd, opts)
	if err != nil {
		return err
	}

	data, name, err := readInput(cmd, args, opts.name)
	if err != nil {
		return err
	}
	log.Debug("read input", "name", name, "bytes", len(data), "tags", tocCfg.Tags)

	req := pipeline.DefaultRequest(tocCfg)
	req.IncludeTree = opts.format != "html"

	res, err := pipeline.Generate(data, name, req)
	if err != nil {
		return err
	}
	log.Debug("generated toc", "headings", res.Headings)

	return write(cmd.OutOrStdout(), opts.format, res)
}

// resolveTOC layers defaults, the config file and explicitly set flags.
func resolveTOC(cmd *cobra.Command, opts *options) (config.TOCConfig, error) {
	t := config.DefaultTOC()
	if opts.configFile != "" {
		loaded, err := config.LoadTOCFile(opts.configFile, t)
		if err != nil {
			return t, err
		}
		t = loaded
	}

	f := cmd.Flags()
	if f.Changed("tags") {
		t.Tags = opts.tags
	}
	if f.Changed("ignore-heading") {
		t.IgnoredHeadings = opts.ignoredHeadings
	}
	if f.Changed("ignore-element") {
		t.IgnoredElements = opts.ignoredElements
	}
	if f.Changed("ul") {
		t.Unordered = opts.unordered
	}
	if f.Changed("no-wrap") {
		t.NoWrap = opts.noWrap
	}
	if f.Changed("nav-class") {
		t.NavClass = opts.navClass
	}
	return t, nil
}

func readInput(cmd *cobra.Command, args []string, name string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		if name == "" {
			return nil, "", errors.New("--name is required when reading from stdin")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, name, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	if name == "" {
		name = filepath.Base(args[0])
	}
	return data, name, nil
}

func write(w io.Writer, format string, res *pipeline.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		if res.HTML == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, res.HTML)
		return err
	}
}
