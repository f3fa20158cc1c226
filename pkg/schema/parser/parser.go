package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
)

// Parser loads schema documents into schema.Node trees.
type Parser struct {
	maxFileSize  int64 // Maximum document size in bytes (default: 4MB)
	metaValidate bool  // Check documents against the meta-schema (default: true)
	checks       map[string]*schema.Check
}

// NewParser creates a parser with the built-in checks registered.
func NewParser() *Parser {
	return &Parser{
		maxFileSize:  4 * 1024 * 1024,
		metaValidate: true,
		checks: map[string]*schema.Check{
			"absolutePath": schema.AbsolutePathCheck(true),
			"relativePath": schema.AbsolutePathCheck(false),
		},
	}
}

// WithMaxFileSize sets the maximum document size.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMetaValidation enables or disables meta-schema validation.
func (p *Parser) WithMetaValidation(enabled bool) *Parser {
	p.metaValidate = enabled
	return p
}

// WithCheck registers a named check that documents can reference with
// "check: {id: <id>}".
func (p *Parser) WithCheck(id string, check *schema.Check) *Parser {
	p.checks[id] = check
	return p
}

// Parse loads the schema document at path.
func (p *Parser) Parse(path string) (*schema.Node, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: Location{File: path},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes loads a schema document from memory. sourcePath is only used
// in error locations.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*schema.Node, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: Location{File: sourcePath},
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{
			Type:    ErrorTypeSyntax,
			Message: fmt.Sprintf("YAML parsing failed: %v", err),
			Location: Location{
				File:   sourcePath,
				Line:   1,
				Column: 1,
			},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &Error{
			Type:     ErrorTypeStructural,
			Message:  "Schema document is empty",
			Location: Location{File: sourcePath},
		}
	}
	root := doc.Content[0]

	b := newBuilder(sourcePath, p.checks)
	node := b.buildRoot(root)
	if b.errors.HasErrors() {
		return nil, withContext(b.errors, data)
	}

	if p.metaValidate {
		if errs := metaValidate(root, sourcePath); errs.HasErrors() {
			return nil, withContext(errs, data)
		}
	}

	return node, nil
}
