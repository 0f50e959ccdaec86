package differ

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

// Option is a function that configures a diff operation
type Option func(*diffConfig) error

// diffConfig holds configuration for a diff operation
type diffConfig struct {
	// Input sources (exactly one source and one target must be set)
	sourceFilePath *string
	sourceValue    any
	sourceSet      bool
	targetFilePath *string
	targetValue    any
	targetSet      bool

	logger         parser.Logger
	fs             afero.Fs
	resolveSchemas bool
}

// DiffWithOptions compares two OpenAPI documents using functional options.
//
// Example:
//
//	result, err := differ.DiffWithOptions(
//	    differ.WithSourceFilePath("api-v1.yaml"),
//	    differ.WithTargetFilePath("api-v2.yaml"),
//	    differ.WithLogger(parser.NewSlogAdapter(nil)),
//	)
func DiffWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	d := &Differ{
		Logger:         cfg.logger,
		Fs:             cfg.fs,
		ResolveSchemas: cfg.resolveSchemas,
	}
	p := &parser.Parser{Fs: cfg.fs, Logger: cfg.logger}

	source := cfg.sourceValue
	if cfg.sourceFilePath != nil {
		res, err := p.ParseFile(*cfg.sourceFilePath)
		if err != nil {
			return nil, fmt.Errorf("differ: failed to parse source: %w", err)
		}
		source = res
	}

	target := cfg.targetValue
	if cfg.targetFilePath != nil {
		res, err := p.ParseFile(*cfg.targetFilePath)
		if err != nil {
			return nil, fmt.Errorf("differ: failed to parse target: %w", err)
		}
		target = res
	}

	return d.Diff(source, target)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*diffConfig, error) {
	cfg := &diffConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sourceCount := 0
	if cfg.sourceFilePath != nil {
		sourceCount++
	}
	if cfg.sourceSet {
		sourceCount++
	}
	if sourceCount != 1 {
		return nil, &oaserrors.ConfigError{
			Option:  "source",
			Message: "must specify exactly one source (use WithSourceFilePath or WithSource)",
		}
	}

	targetCount := 0
	if cfg.targetFilePath != nil {
		targetCount++
	}
	if cfg.targetSet {
		targetCount++
	}
	if targetCount != 1 {
		return nil, &oaserrors.ConfigError{
			Option:  "target",
			Message: "must specify exactly one target (use WithTargetFilePath or WithTarget)",
		}
	}

	return cfg, nil
}

// WithSourceFilePath specifies a file path as the source document
func WithSourceFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "WithSourceFilePath", Message: "path must not be empty"}
		}
		cfg.sourceFilePath = &path
		return nil
	}
}

// WithSource specifies the source document as text, a parse result or a
// decoded value; see Differ.Diff for the accepted types.
func WithSource(doc any) Option {
	return func(cfg *diffConfig) error {
		cfg.sourceValue = doc
		cfg.sourceSet = true
		return nil
	}
}

// WithTargetFilePath specifies a file path as the target document
func WithTargetFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "WithTargetFilePath", Message: "path must not be empty"}
		}
		cfg.targetFilePath = &path
		return nil
	}
}

// WithTarget specifies the target document as text, a parse result or a
// decoded value; see Differ.Diff for the accepted types.
func WithTarget(doc any) Option {
	return func(cfg *diffConfig) error {
		cfg.targetValue = doc
		cfg.targetSet = true
		return nil
	}
}

// WithLogger sets the logger for debug output
// Default: parser.NopLogger
func WithLogger(logger parser.Logger) Option {
	return func(cfg *diffConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithFs sets the filesystem file paths are read from
// Default: the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(cfg *diffConfig) error {
		cfg.fs = fs
		return nil
	}
}

// WithResolveSchemas enables deep resolution of the schemas embedded in the report
// Default: false
func WithResolveSchemas(enabled bool) Option {
	return func(cfg *diffConfig) error {
		cfg.resolveSchemas = enabled
		return nil
	}
}
