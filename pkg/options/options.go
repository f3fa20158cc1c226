package options

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/schema/parser"
	"github.com/CubeSugarZhang/webpack/pkg/validation"
)

// Header opens every report about webpack options.
const Header = validation.DefaultHeader + " Webpack has been initialised using a configuration object that does not match the API schema."

// SourceName is the name the embedded schema is reported under.
const SourceName = "webpack-options.yaml"

//go:embed webpack-options.yaml
var document []byte

var (
	schemaOnce sync.Once
	root       *schema.Node
	schemaErr  error
)

// Document returns the embedded schema document.
func Document() []byte {
	return document
}

// Schema returns the webpack options schema. It is parsed once and shared.
func Schema() (*schema.Node, error) {
	schemaOnce.Do(func() {
		root, schemaErr = parser.NewParser().ParseBytes(document, SourceName)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("load embedded webpack options schema: %w", schemaErr)
		}
	})
	return root, schemaErr
}

// MustSchema is like Schema but panics if the embedded document is invalid.
func MustSchema() *schema.Node {
	s, err := Schema()
	if err != nil {
		panic(err)
	}
	return s
}

// NewValidator returns a validator for webpack options using Header.
func NewValidator(opts ...validation.Option) (*validation.Validator, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return validation.NewValidator(s, append([]validation.Option{validation.WithHeader(Header)}, opts...)...), nil
}

// Validate checks one webpack configuration or an array of them.
func Validate(cfg any) error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	return v.Validate(cfg)
}
