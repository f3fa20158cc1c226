package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/validation"
	"github.com/CubeSugarZhang/webpack/pkg/value"
)

const entryDocument = `
definitions:
  nonEmptyString: &nonEmptyString
    type: string
    minLength: 1
  nonEmptyStringArray: &nonEmptyStringArray
    type: array
    items: *nonEmptyString
type: object
required: [entry]
properties:
  entry:
    description: The entry point(s) of the compilation.
    oneOf:
      - type: object
        additionalProperties:
          oneOf:
            - *nonEmptyString
            - *nonEmptyStringArray
      - *nonEmptyString
      - *nonEmptyStringArray
      - instanceof: Function
        description: A Function returning an entry object, an entry string, an entry array or a promise to these things.
  mode:
    enum: [development, production, none]
  output:
    type: object
    description: Options affecting the output of the compilation.
    properties:
      filename:
        type: string
        absolutePath: false
        hint: Please use output.path to specify absolute path and output.filename for the file name.
      path:
        type: string
        absolutePath: true
  plugins:
    type: array
    items:
      type: object
      additionalProperties: true
guidance: "For typos: please correct them."
propertyGuidance:
  debug: The 'debug' property was removed in webpack 2.0.0.
`

func mustParse(t *testing.T, p *Parser, doc string) *schema.Node {
	t.Helper()
	node, err := p.ParseBytes([]byte(doc), "schema.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return node
}

func TestParser_ParseBytes(t *testing.T) {
	root := mustParse(t, NewParser(), entryDocument)

	if root.Kind != schema.KindObject {
		t.Fatalf("root.Kind = %s, want object", root.Kind)
	}
	if got, want := root.Summary(), "object { entry, mode?, output?, plugins? }"; got != want {
		t.Errorf("root.Summary() = %q, want %q", got, want)
	}

	entry, ok := root.Lookup("entry")
	if !ok {
		t.Fatal("Lookup(entry) failed")
	}
	want := "object { <key>: non-empty string | [non-empty string] } | non-empty string | [non-empty string] | function\n" +
		"-> The entry point(s) of the compilation."
	if got := entry.Text(); got != want {
		t.Errorf("entry.Text() = %q, want %q", got, want)
	}

	filename, ok := root.Lookup("output.filename")
	if !ok {
		t.Fatal("Lookup(output.filename) failed")
	}
	if filename.Kind != schema.KindCustom || filename.Check.ID != "relativePath" {
		t.Errorf("filename = %s/%v, want custom relativePath", filename.Kind, filename.Check)
	}

	plugin, ok := root.Lookup("plugins[]")
	if !ok || !plugin.AdditionalProperties {
		t.Errorf("plugins[] should be an open object")
	}

	if root.Guidance != "For typos: please correct them." {
		t.Errorf("Guidance = %q", root.Guidance)
	}
	if root.PropertyGuidance["debug"] == "" {
		t.Error("PropertyGuidance[debug] missing")
	}
}

func TestParser_AnchorsAreShared(t *testing.T) {
	root := mustParse(t, NewParser(), entryDocument)
	entry, _ := root.Lookup("entry")

	direct := entry.Alternatives[1]
	viaObject := entry.Alternatives[0].AdditionalSchema.Alternatives[0]
	if direct != viaObject {
		t.Error("aliases of the same anchor should share one node")
	}
}

func TestParser_ParsedSchemaValidates(t *testing.T) {
	root := mustParse(t, NewParser(), entryDocument)

	tests := []struct {
		name string
		cfg  any
		want string
	}{
		{
			name: "relative filename required",
			cfg:  value.MapOf("entry", "a", "output", value.MapOf("filename", "/bar.js")),
			want: "Invalid configuration object.\n" +
				` - configuration.output.filename: A relative path is expected. However the provided value "/bar.js" is an absolute path!` + "\n" +
				"   Please use output.path to specify absolute path and output.filename for the file name.",
		},
		{
			name: "removed property guidance",
			cfg:  value.MapOf("entry", "a", "debug", true),
			want: "Invalid configuration object.\n" +
				" - configuration has an unknown property 'debug'. These properties are valid:\n" +
				"   object { entry, mode?, output?, plugins? }\n" +
				"   The 'debug' property was removed in webpack 2.0.0.",
		},
		{
			name: "enum values keep their types",
			cfg:  value.MapOf("entry", "a", "mode", "fast"),
			want: "Invalid configuration object.\n" +
				" - configuration.mode should be one of these:\n" +
				`   "development" | "production" | "none"` + "\n" +
				"   Details:\n" +
				`    * configuration.mode should be "development"` + "\n" +
				`    * configuration.mode should be "production"` + "\n" +
				`    * configuration.mode should be "none"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(root, tt.cfg)
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}

	if err := validation.Validate(root, value.MapOf("entry", []any{"./a.js"}, "plugins", []any{value.MapOf("any", 1)})); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParser_JSONDocument(t *testing.T) {
	doc := `{
  "type": "object",
  "properties": {
    "context": {"type": "string", "absolutePath": true, "description": "The base directory."},
    "bail": {"type": "boolean"},
    "parallelism": {"type": "number"},
    "test": {"instanceof": "RegExp"},
    "target": {"const": "web"}
  }
}`
	root := mustParse(t, NewParser(), doc)
	if got, want := root.Summary(), "object { context?, bail?, parallelism?, test?, target? }"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	target, _ := root.Lookup("target")
	if target.Kind != schema.KindConst || target.Value != "web" {
		t.Errorf("target = %+v", target)
	}
	context, _ := root.Lookup("context")
	if got, want := context.Text(), "string\n-> The base directory."; got != want {
		t.Errorf("context.Text() = %q, want %q", got, want)
	}
}

func TestParser_StructuralErrors(t *testing.T) {
	tests := []struct {
		name           string
		doc            string
		wantMessage    string
		wantSuggestion string
		wantLine       int
	}{
		{
			name:           "misspelled keyword",
			doc:            "type: object\nproperties:\n  entry:\n    type: string\n    descripton: x\n",
			wantMessage:    `Unknown schema keyword "descripton"`,
			wantSuggestion: "Did you mean 'description'?",
			wantLine:       5,
		},
		{
			name:           "unknown type",
			doc:            "type: strng\n",
			wantMessage:    `Unknown type "strng"`,
			wantSuggestion: "Did you mean 'string'?",
			wantLine:       1,
		},
		{
			name:           "required property not declared",
			doc:            "type: object\nrequired: [entri]\nproperties:\n  entry:\n    type: string\n",
			wantMessage:    `Required property "entri" is not declared in properties`,
			wantSuggestion: "Did you mean 'entry'?",
			wantLine:       2,
		},
		{
			name:        "conflicting kind keywords",
			doc:         "type: string\nenum: [a, b]\n",
			wantMessage: "Conflicting schema keywords: type, enum",
			wantLine:    1,
		},
		{
			name:        "keyword for another kind",
			doc:         "type: string\nitems:\n  type: string\n",
			wantMessage: `Keyword "items" is only valid for array schemas`,
			wantLine:    3,
		},
		{
			name:        "no kind",
			doc:         "description: nothing else\n",
			wantMessage: "Cannot determine schema kind",
			wantLine:    1,
		},
		{
			name:        "schema is not a mapping",
			doc:         "type: array\nitems: [string]\n",
			wantMessage: "Schema must be a mapping, got sequence",
			wantLine:    2,
		},
		{
			name:           "unknown check",
			doc:            "type: string\ncheck:\n  id: absolutPath\n",
			wantMessage:    `Unknown check "absolutPath"`,
			wantSuggestion: "Did you mean 'absolutePath'?",
			wantLine:       3,
		},
		{
			name:        "hint without check",
			doc:         "type: string\nhint: nothing to hint\n",
			wantMessage: "hint requires absolutePath or check",
			wantLine:    2,
		},
		{
			name:        "recursive alias",
			doc:         "type: object\nproperties:\n  rule: &rule\n    type: object\n    properties:\n      rules:\n        type: array\n        items: *rule\n",
			wantMessage: "Recursive alias *rule",
			wantLine:    8,
		},
		{
			name:        "invalid expression",
			doc:         "type: string\ncheck:\n  expr: \"self.startsWith(\"\n",
			wantMessage: "Invalid check expression",
			wantLine:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseBytes([]byte(tt.doc), "schema.yaml")
			if err == nil {
				t.Fatal("ParseBytes() error = nil")
			}
			var list *ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("error type = %T, want *ErrorList", err)
			}
			if !list.HasErrorType(ErrorTypeStructural) {
				t.Fatalf("no structural error in %v", list)
			}

			first := list.ByType(ErrorTypeStructural)[0]
			if !strings.Contains(first.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want it to contain %q", first.Message, tt.wantMessage)
			}
			if first.Suggestion != tt.wantSuggestion {
				t.Errorf("Suggestion = %q, want %q", first.Suggestion, tt.wantSuggestion)
			}
			if first.Location.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", first.Location.Line, tt.wantLine)
			}
			if first.Context == "" {
				t.Error("Context is empty")
			}
		})
	}
}

func TestParser_CollectsAllErrors(t *testing.T) {
	doc := "type: object\nproperties:\n  a:\n    tpye: string\n  b:\n    type: nubmer\n"
	_, err := NewParser().ParseBytes([]byte(doc), "schema.yaml")

	var list *ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error = %v, want *ErrorList", err)
	}
	// "tpye" is unknown and leaves "a" without a kind; "nubmer" is unknown.
	if list.Count() != 3 {
		t.Errorf("Count() = %d, want 3:\n%v", list.Count(), list)
	}
}

func TestParser_MetaValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "negative minLength", doc: "type: string\nminLength: -1\n"},
		{name: "duplicate required", doc: "type: object\nrequired: [a, a]\nproperties:\n  a:\n    type: string\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseBytes([]byte(tt.doc), "schema.yaml")
			var list *ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("error = %v, want *ErrorList", err)
			}
			if !list.HasErrorType(ErrorTypeMeta) {
				t.Errorf("expected a meta error, got %v", list)
			}

			if _, err := NewParser().WithMetaValidation(false).ParseBytes([]byte(tt.doc), "schema.yaml"); err != nil {
				t.Errorf("without meta-validation: %v", err)
			}
		})
	}
}

func TestMetaSchema_Compiles(t *testing.T) {
	if _, err := MetaSchema(); err != nil {
		t.Fatalf("MetaSchema() error = %v", err)
	}
	if !strings.Contains(MetaSchemaJSON(), `"absolutePath"`) {
		t.Error("MetaSchemaJSON() does not describe absolutePath")
	}
}

func TestParser_ExpressionCheck(t *testing.T) {
	doc := `
type: object
properties:
  publicPath:
    type: string
    check:
      id: trailingSlash
      expr: "self == '' || self.endsWith('/')"
      message: "The provided value {value} must end with a slash."
  port:
    check:
      expr: "self > 0 && self < 65536"
`
	root := mustParse(t, NewParser(), doc)

	publicPath, _ := root.Lookup("publicPath")
	if publicPath.Summary() != "string" {
		t.Errorf("publicPath.Summary() = %q, want string", publicPath.Summary())
	}
	port, _ := root.Lookup("port")
	if port.Summary() != "expression" {
		t.Errorf("port.Summary() = %q, want expression", port.Summary())
	}

	tests := []struct {
		name string
		cfg  any
		want string
	}{
		{name: "valid", cfg: value.MapOf("publicPath", "/assets/", "port", 8080)},
		{
			name: "custom message",
			cfg:  value.MapOf("publicPath", "/assets"),
			want: "Invalid configuration object.\n" +
				` - configuration.publicPath: The provided value "/assets" must end with a slash.`,
		},
		{
			name: "base mismatch wins",
			cfg:  value.MapOf("publicPath", 1),
			want: "Invalid configuration object.\n - configuration.publicPath should be a string.",
		},
		{
			name: "default message",
			cfg:  value.MapOf("port", 70000),
			want: "Invalid configuration object.\n" +
				" - configuration.port: The provided value 70000 does not satisfy self > 0 && self < 65536",
		},
		{
			name: "evaluation error fails the check",
			cfg:  value.MapOf("port", "80"),
			want: "Invalid configuration object.\n" +
				` - configuration.port: The provided value "80" does not satisfy self > 0 && self < 65536`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(root, tt.cfg)
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParser_WithCheck(t *testing.T) {
	hashed := &schema.Check{
		ID:      "hashedFilename",
		Test:    func(v any) bool { s, _ := v.(string); return strings.Contains(s, "[contenthash]") },
		Message: func(v any) string { return "missing [contenthash]" },
	}
	doc := "type: string\ncheck:\n  id: hashedFilename\n  message: \"{value} has no hash\"\n"

	node := mustParse(t, NewParser().WithCheck("hashedFilename", hashed), doc)

	vs := validation.Match(node, "main.js", validation.Root())
	if len(vs) != 1 {
		t.Fatalf("len(Match()) = %d, want 1", len(vs))
	}
	if got := validation.Statement(vs[0]); got != `configuration: "main.js" has no hash` {
		t.Errorf("Statement() = %q", got)
	}
	if hashed.Message(nil) != "missing [contenthash]" {
		t.Error("registered check was modified")
	}
}

func TestParser_Parse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte(entryDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewParser().Parse(path); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err := NewParser().WithMaxFileSize(16).Parse(path)
	var pe *Error
	if !errors.As(err, &pe) || pe.Type != ErrorTypeIO {
		t.Errorf("oversized file: error = %v, want io error", err)
	}

	_, err = NewParser().Parse(filepath.Join(dir, "missing.yaml"))
	if !errors.As(err, &pe) || pe.Type != ErrorTypeIO {
		t.Errorf("missing file: error = %v, want io error", err)
	}
}

func TestParser_SyntaxAndEmpty(t *testing.T) {
	var pe *Error

	_, err := NewParser().ParseBytes([]byte("type: [string"), "bad.yaml")
	if !errors.As(err, &pe) || pe.Type != ErrorTypeSyntax {
		t.Errorf("syntax: error = %v, want syntax error", err)
	}

	_, err = NewParser().ParseBytes([]byte(""), "empty.yaml")
	if !errors.As(err, &pe) || pe.Type != ErrorTypeStructural {
		t.Errorf("empty: error = %v, want structural error", err)
	}
}
