package parse

import (
	"errors"
	"strings"
	"testing"
)

const eslintStyleItems = `[
	{"line": 3, "column": 7, "message": "Unexpected var, use let or const instead.", "severity": 2, "ruleId": "no-var"},
	{"line": 10, "column": 1, "message": "Missing semicolon.", "severity": 1, "ruleId": "semi"}
]`

func TestDecode_BareList(t *testing.T) {
	out, err := Decode(eslintStyleItems)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Kind != KindList {
		t.Errorf("Kind = %v, expected list", out.Kind)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out.Items))
	}

	first := out.Items[0]
	if got := first.Get("message").String(); got != "Unexpected var, use let or const instead." {
		t.Errorf("message = %q", got)
	}
	if got := first.Get("line").Int(); got != 3 {
		t.Errorf("line = %d", got)
	}
	if got := first.Get("severity").Int(); got != 2 {
		t.Errorf("severity = %d", got)
	}
}

func TestDecode_WrappedEqualsBare(t *testing.T) {
	wrapped := `{"results": ` + eslintStyleItems + `, "summary": {"count": 2}}`

	bareOut, err := Decode(eslintStyleItems)
	if err != nil {
		t.Fatalf("Decode bare: %v", err)
	}
	wrappedOut, err := Decode(wrapped)
	if err != nil {
		t.Fatalf("Decode wrapped: %v", err)
	}

	if wrappedOut.Kind != KindWrapped {
		t.Errorf("Kind = %v, expected wrapped", wrappedOut.Kind)
	}
	if len(bareOut.Items) != len(wrappedOut.Items) {
		t.Fatalf("item counts differ: %d vs %d", len(bareOut.Items), len(wrappedOut.Items))
	}
	for i := range bareOut.Items {
		if bareOut.Items[i].Raw != wrappedOut.Items[i].Raw {
			t.Errorf("item %d differs between shapes", i)
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		out, err := Decode(text)
		if err != nil {
			t.Errorf("Decode(%q): %v", text, err)
		}
		if out.Kind != KindEmpty {
			t.Errorf("Decode(%q) Kind = %v, expected empty", text, out.Kind)
		}
		if len(out.Items) != 0 {
			t.Errorf("Decode(%q) produced %d items", text, len(out.Items))
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(`{"results": [`)
	if err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedError, got %T", err)
	}
	if me.Snippet == "" {
		t.Error("expected a snippet of the bad output")
	}
}

func TestDecode_MalformedSnippetTruncated(t *testing.T) {
	long := "{" + strings.Repeat("x", 500)
	_, err := Decode(long)

	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if len(me.Snippet) > snippetLen+3 {
		t.Errorf("snippet too long: %d chars", len(me.Snippet))
	}
}

func TestDecode_OpaqueShapes(t *testing.T) {
	tests := []string{
		`{"ok": true}`,
		`{"results": {"nested": true}}`,
		`{"results": "not an array"}`,
		`"just a string"`,
		`42`,
		`null`,
	}

	for _, text := range tests {
		out, err := Decode(text)
		if err != nil {
			t.Errorf("Decode(%q): unexpected error %v", text, err)
			continue
		}
		if out.Kind != KindOpaque {
			t.Errorf("Decode(%q) Kind = %v, expected opaque", text, out.Kind)
		}
		if len(out.Items) != 0 {
			t.Errorf("Decode(%q) produced %d items, expected none", text, len(out.Items))
		}
	}
}

func TestDecode_EmptyList(t *testing.T) {
	out, err := Decode(`[]`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Kind != KindList {
		t.Errorf("Kind = %v, expected list", out.Kind)
	}
	if len(out.Items) != 0 {
		t.Errorf("expected no items, got %d", len(out.Items))
	}
}

func TestDecode_Idempotent(t *testing.T) {
	first, err1 := Decode(eslintStyleItems)
	second, err2 := Decode(eslintStyleItems)
	if err1 != nil || err2 != nil {
		t.Fatalf("Decode errors: %v, %v", err1, err2)
	}
	if first.Kind != second.Kind || len(first.Items) != len(second.Items) {
		t.Fatal("repeated decodes disagree")
	}
	for i := range first.Items {
		if first.Items[i].Raw != second.Items[i].Raw {
			t.Errorf("item %d differs between decodes", i)
		}
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindEmpty, "empty"},
		{KindList, "list"},
		{KindWrapped, "wrapped"},
		{KindOpaque, "opaque"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = '%s', expected '%s'", tt.kind, got, tt.expected)
		}
	}
}
