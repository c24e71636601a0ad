// Package parse decodes external tool output into raw results.
//
// Tools emit JSON in one of two recognized shapes: a bare top-level
// array of results, or an object wrapping that array in a "results"
// field. Both decode to the same items. Valid JSON in any other shape
// is opaque and yields zero results without complaint; output that does
// not parse at all is malformed, reported as an error so the caller can
// warn and carry on with zero results.
package parse

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Result is one raw tool result, navigable without prior schema
// knowledge. Validators and transformers receive these untouched.
type Result = gjson.Result

// Kind identifies which recognized shape the output matched.
type Kind int

const (
	// KindEmpty is blank output: the tool had nothing to say.
	KindEmpty Kind = iota
	// KindList is a bare top-level array of results.
	KindList
	// KindWrapped is an object carrying its results in a "results" field.
	KindWrapped
	// KindOpaque is valid JSON in any other shape; it carries no results.
	KindOpaque
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindList:
		return "list"
	case KindWrapped:
		return "wrapped"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Output is decoded tool output.
type Output struct {
	Kind  Kind
	Items []Result
}

// Decode interprets raw tool stdout. Decoding the same text always
// produces the same output; nothing here depends on outside state.
func Decode(text string) (Output, error) {
	if strings.TrimSpace(text) == "" {
		return Output{Kind: KindEmpty}, nil
	}

	if !gjson.Valid(text) {
		return Output{}, &MalformedError{Snippet: snippet(text)}
	}

	doc := gjson.Parse(text)
	switch {
	case doc.IsArray():
		return Output{Kind: KindList, Items: doc.Array()}, nil
	case doc.IsObject():
		if results := doc.Get("results"); results.IsArray() {
			return Output{Kind: KindWrapped, Items: results.Array()}, nil
		}
	}
	return Output{Kind: KindOpaque}, nil
}

// snippetLen bounds how much unparseable output gets quoted in errors.
const snippetLen = 120

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "..."
}
