package parser

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed document.schema.json
var documentSchemaJSON string

const documentSchemaURL = "document.schema.json"

var (
	metaOnce   sync.Once
	metaSchema *jsonschema.Schema
	metaErr    error
)

// MetaSchema returns the compiled JSON schema that schema documents are
// checked against.
func MetaSchema() (*jsonschema.Schema, error) {
	metaOnce.Do(func() {
		metaSchema, metaErr = jsonschema.CompileString(documentSchemaURL, documentSchemaJSON)
	})
	return metaSchema, metaErr
}

// MetaSchemaJSON returns the source of the meta-schema.
func MetaSchemaJSON() string {
	return documentSchemaJSON
}

// metaValidate checks the document rooted at root against the meta-schema.
// Each failing keyword becomes one error located at the offending YAML node.
func metaValidate(root *yaml.Node, sourcePath string) *ErrorList {
	errs := NewErrorList()

	sch, err := MetaSchema()
	if err != nil {
		errs.AddError(ErrorTypeMeta, fmt.Sprintf("Meta-schema does not compile: %v", err), Location{File: sourcePath})
		return errs
	}

	doc, err := toJSONValue(root)
	if err != nil {
		errs.AddError(ErrorTypeMeta, fmt.Sprintf("Document cannot be represented as JSON: %v", err), Location{File: sourcePath, Line: root.Line, Column: root.Column})
		return errs
	}

	err = sch.Validate(doc)
	if err == nil {
		return errs
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		errs.AddError(ErrorTypeMeta, err.Error(), Location{File: sourcePath})
		return errs
	}

	for _, leaf := range leafCauses(ve) {
		n := resolvePointer(root, leaf.InstanceLocation)
		where := leaf.InstanceLocation
		if where == "" {
			where = "/"
		}
		errs.AddError(ErrorTypeMeta,
			fmt.Sprintf("%s: %s", where, leaf.Message),
			Location{File: sourcePath, Line: n.Line, Column: n.Column})
	}
	return errs
}

// toJSONValue converts a YAML tree into the generic JSON representation the
// meta-schema validator expects.
func toJSONValue(root *yaml.Node) (any, error) {
	var raw any
	if err := root.Decode(&raw); err != nil {
		return nil, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// leafCauses flattens a validation error tree to its most specific causes.
func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}

// resolvePointer follows a JSON pointer through the YAML tree. It returns the
// deepest node it could reach, so errors always carry a line.
func resolvePointer(root *yaml.Node, pointer string) *yaml.Node {
	current := root
	if pointer == "" || pointer == "/" {
		return current
	}

	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		for current.Kind == yaml.AliasNode && current.Alias != nil {
			current = current.Alias
		}

		var next *yaml.Node
		switch current.Kind {
		case yaml.MappingNode:
			next = mappingValue(current, token)
		case yaml.SequenceNode:
			if i, err := strconv.Atoi(token); err == nil && i >= 0 && i < len(current.Content) {
				next = current.Content[i]
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
	return current
}
