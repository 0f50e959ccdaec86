package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oaschangelog/oaserrors"
)

// Parser decodes OpenAPI documents into generic trees.
//
// The zero value is usable: it reads from the OS filesystem and discards logs.
type Parser struct {
	// Fs is the filesystem ParseFile reads from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives debug output. Defaults to NopLogger.
	Logger Logger
}

// New creates a Parser backed by the OS filesystem.
func New() *Parser {
	return &Parser{Fs: afero.NewOsFs()}
}

// ParseResult holds a decoded document and metadata about where it came from.
type ParseResult struct {
	// SourcePath is the file the document was read from, or "ParseBytes.<format>"
	SourcePath string
	// SourceFormat is the detected input format
	SourceFormat SourceFormat
	// SourceSize is the input size in bytes
	SourceSize int64
	// Data is the normalized tree. It is not shape-checked: a document that
	// decodes to a list or a scalar is returned as-is so that callers can
	// report which side is malformed.
	Data any
}

func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) fs() afero.Fs {
	if p.Fs != nil {
		return p.Fs
	}
	return afero.NewOsFs()
}

// ParseFile reads and decodes the document at path.
// The extension decides the decoder; unknown extensions fall back to content sniffing.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	data, err := afero.ReadFile(p.fs(), path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}

	format := detectFormatFromPath(path)
	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}

	tree, err := p.decode(data, format, path)
	if err != nil {
		return nil, err
	}
	p.log().Debug("parsed document", "path", path, "format", format, "bytes", len(data))

	return &ParseResult{
		SourcePath:   path,
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		Data:         tree,
	}, nil
}

// ParseReader decodes a document read from r.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes decodes a JSON or YAML document held in memory.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	format := detectFormatFromContent(data)
	tree, err := p.decode(data, format, "")
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		SourcePath:   "ParseBytes." + string(format),
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		Data:         tree,
	}, nil
}

// decode turns data into a normalized tree. JSON input skips the YAML
// decoder, which is considerably slower and allocates a full node tree.
func (p *Parser) decode(data []byte, format SourceFormat, path string) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Path: path, Message: "document is empty"}
	}

	var raw any
	if format == SourceFormatJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.ParseError{Path: path, Message: "failed to parse JSON", Cause: err}
		}
		// encoding/json already yields string-keyed maps.
		return raw, nil
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "failed to parse YAML/JSON", Cause: err}
	}
	return Normalize(raw)
}

// ParseBytes decodes data with a default Parser.
func ParseBytes(data []byte) (*ParseResult, error) {
	return (&Parser{}).ParseBytes(data)
}

// ParseFile decodes the file at path with a default Parser.
func ParseFile(path string) (*ParseResult, error) {
	return New().ParseFile(path)
}
