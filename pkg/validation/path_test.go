package validation

import "testing"

func TestPath_String(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{name: "root", path: Root(), want: "configuration"},
		{name: "property", path: Root().Property("entry"), want: "configuration.entry"},
		{name: "index", path: Root().Index(2), want: "configuration[2]"},
		{
			name: "nested",
			path: Root().Property("module").Property("rules").Index(0).Property("oneOf").Index(0),
			want: "configuration.module.rules[0].oneOf[0]",
		},
		{name: "dash needs brackets", path: Root().Property("my-key"), want: "configuration['my-key']"},
		{name: "leading digit needs brackets", path: Root().Property("0day"), want: "configuration['0day']"},
		{name: "dollar is identifier safe", path: Root().Property("$ref"), want: "configuration.$ref"},
		{name: "empty name", path: Root().Property(""), want: "configuration['']"},
		{name: "quote is escaped", path: Root().Property("it's"), want: `configuration['it\'s']`},
		{name: "backslash is escaped", path: Root().Property(`a\b`), want: `configuration['a\\b']`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPath_Immutable(t *testing.T) {
	base := Root().Property("output")
	a := base.Property("filename")
	b := base.Property("path")

	if got := a.String(); got != "configuration.output.filename" {
		t.Errorf("a = %q", got)
	}
	if got := b.String(); got != "configuration.output.path" {
		t.Errorf("b = %q", got)
	}
	if got := base.String(); got != "configuration.output" {
		t.Errorf("base = %q", got)
	}

	parent, _, _ := a.Parent()
	c := parent.Property("publicPath")
	if got := a.String(); got != "configuration.output.filename" {
		t.Errorf("extending a parent changed the child: %q", got)
	}
	if got := c.String(); got != "configuration.output.publicPath" {
		t.Errorf("c = %q", got)
	}
}

func TestPath_Parent(t *testing.T) {
	p := Root().Index(1).Property("entry")

	parent, last, ok := p.Parent()
	if !ok {
		t.Fatal("Parent() ok = false")
	}
	if got := parent.String(); got != "configuration[1]" {
		t.Errorf("parent = %q", got)
	}
	if last.Name != "entry" || last.IsIndex {
		t.Errorf("last = %+v", last)
	}

	if _, _, ok := Root().Parent(); ok {
		t.Error("root has no parent")
	}
}
