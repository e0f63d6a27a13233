package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-editable"
	"github.com/goliatone/go-editable/internal/prompt"
	"github.com/goliatone/go-editable/pkg/config"
	"github.com/goliatone/go-editable/pkg/descriptor"
	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/openapi"
	"github.com/goliatone/go-editable/pkg/render"
	"github.com/goliatone/go-editable/pkg/schema"
)

type cliOptions struct {
	schemaDir   string
	openapiPath string
	configDir   string
	recordPath  string
	attribute   string
	inline      string
	renderer    string
	output      string
	disabled    bool
	interactive bool
	verbose     bool
}

func main() {
	var opts cliOptions
	flag.StringVar(&opts.schemaDir, "schema", "", "directory of YAML class declarations")
	flag.StringVar(&opts.openapiPath, "openapi", "", "OpenAPI document describing the classes (alternative to -schema)")
	flag.StringVar(&opts.configDir, "config", "", "directory of per-attribute option files")
	flag.StringVar(&opts.recordPath, "record", "", "YAML record to render")
	flag.StringVar(&opts.attribute, "attribute", "", "attribute to render; nested records are selected with a nested: key in -options")
	flag.StringVar(&opts.inline, "options", "", "inline YAML mapping of per-call options")
	flag.StringVar(&opts.renderer, "renderer", "html", "renderer to use (html or json)")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.BoolVar(&opts.disabled, "disabled", false, "render the display value only")
	flag.BoolVar(&opts.interactive, "interactive", false, "prompt for the attribute and editing mode")
	flag.BoolVar(&opts.verbose, "verbose", false, "log debug events to stderr")
	flag.Parse()

	out, err := run(context.Background(), opts, prompt.NewSurveyDriver(), os.Stderr)
	if err != nil {
		log.Fatalf("Failed to render attribute: %v", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Element written to %s\n", opts.output)
		return
	}
	fmt.Println(string(out))
}

func run(ctx context.Context, opts cliOptions, driver prompt.Driver, logOut io.Writer) ([]byte, error) {
	registry, err := loadSchema(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.recordPath == "" {
		return nil, fmt.Errorf("-record is required")
	}
	data, err := os.ReadFile(opts.recordPath)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	record, err := entity.LoadRecord(data)
	if err != nil {
		return nil, err
	}

	store := config.NewStore()
	if opts.configDir != "" {
		if store, err = config.LoadFS(os.DirFS(opts.configDir)); err != nil {
			return nil, err
		}
	}

	callOptions, err := parseInlineOptions(opts.inline)
	if err != nil {
		return nil, err
	}

	attribute := opts.attribute
	enabled := !opts.disabled
	if opts.interactive {
		class, _ := registry.Class(record.Class())
		if attribute, err = prompt.Attribute(ctx, driver, record.Class(), attributeNames(class), attribute); err != nil {
			return nil, err
		}
		if enabled, err = prompt.Editing(ctx, driver, enabled); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(attribute) == "" {
		return nil, fmt.Errorf("-attribute is required")
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	builder := editable.New(registry,
		descriptor.WithConfiguration(store),
		descriptor.WithLogger(logger),
	)
	desc, err := builder.Assemble(record, attribute, callOptions, enabled)
	if err != nil {
		return nil, err
	}

	renderers, err := editable.NewRegistry()
	if err != nil {
		return nil, err
	}
	return renderers.Render(ctx, opts.renderer, desc, render.RenderOptions{})
}

func loadSchema(ctx context.Context, opts cliOptions) (*schema.Registry, error) {
	switch {
	case opts.openapiPath != "":
		dir, name := filepath.Dir(opts.openapiPath), filepath.Base(opts.openapiPath)
		return openapi.LoadFS(ctx, os.DirFS(dir), name, openapi.WithValidation())
	case opts.schemaDir != "":
		return schema.LoadFS(os.DirFS(opts.schemaDir))
	default:
		return nil, fmt.Errorf("one of -schema or -openapi is required")
	}
}

func parseInlineOptions(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		return nil, fmt.Errorf("parse -options: %w", err)
	}
	decoded, err := config.DecodeOptions(&node)
	if err != nil {
		return nil, fmt.Errorf("parse -options: %w", err)
	}
	return map[string]any(decoded), nil
}

func attributeNames(class schema.Class) []string {
	names := make([]string, 0, len(class.Attributes))
	for name := range class.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
