package configfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultMaxFileSize bounds the size of a configuration file.
const DefaultMaxFileSize = 8 * 1024 * 1024

// Loader reads configuration files into values the validator understands.
type Loader struct {
	maxFileSize int64
}

// NewLoader creates a loader with default limits.
func NewLoader() *Loader {
	return &Loader{maxFileSize: DefaultMaxFileSize}
}

// WithMaxFileSize sets the maximum file size limit.
func (l *Loader) WithMaxFileSize(size int64) *Loader {
	l.maxFileSize = size
	return l
}

// Load reads the configuration stored at path. See LoadBytes for the shapes
// it returns.
func (l *Loader) Load(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: fmt.Sprintf("failed to access file: %v", err), Err: err}
	}
	if info.Size() > l.maxFileSize {
		return nil, &LoadError{Source: path, Message: fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), l.maxFileSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: fmt.Sprintf("failed to read file: %v", err), Err: err}
	}
	return l.LoadBytes(data, path)
}

// LoadBytes decodes YAML or JSON data. A single document yields one
// configuration; several documents yield an array of configurations.
// Mappings are returned as *value.Map in document order.
func (l *Loader) LoadBytes(data []byte, source string) (any, error) {
	if int64(len(data)) > l.maxFileSize {
		return nil, &LoadError{Source: source, Message: fmt.Sprintf("content size %d exceeds maximum %d bytes", len(data), l.maxFileSize)}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Line: 1, Column: 1, Message: fmt.Sprintf("YAML parsing failed: %v", err), Err: err}
		}

		v, err := newDecoder(source).decode(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}

	switch len(docs) {
	case 0:
		return nil, &LoadError{Source: source, Message: ErrNoConfiguration.Error(), Err: ErrNoConfiguration}
	case 1:
		return docs[0], nil
	}
	return docs, nil
}

// File is one loaded configuration file.
type File struct {
	Path   string
	Config any
}

// LoadFiles loads every path. Files that fail are skipped and their errors
// are aggregated into the returned error, so callers can still use the
// files that loaded.
func (l *Loader) LoadFiles(paths []string) ([]File, error) {
	var (
		files []File
		errs  *multierror.Error
	)
	for _, p := range paths {
		cfg, err := l.Load(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		files = append(files, File{Path: p, Config: cfg})
	}
	return files, errs.ErrorOrNil()
}

// Combine merges loaded files into the value handed to the validator: the
// single configuration of a single file, or one array of every
// configuration otherwise. Files holding several documents contribute each
// document as its own entry.
func Combine(files []File) any {
	if len(files) == 1 {
		return files[0].Config
	}
	var out []any
	for _, f := range files {
		if many, ok := f.Config.([]any); ok {
			out = append(out, many...)
			continue
		}
		out = append(out, f.Config)
	}
	return out
}

// Load reads path with a default loader.
func Load(path string) (any, error) {
	return NewLoader().Load(path)
}

// LoadBytes decodes data with a default loader.
func LoadBytes(data []byte, source string) (any, error) {
	return NewLoader().LoadBytes(data, source)
}
