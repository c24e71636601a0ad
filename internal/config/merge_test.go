package config

import "testing"

func TestDeepMerge_RightBias(t *testing.T) {
	dst := map[string]any{"a": 1, "b": "keep"}
	src := map[string]any{"a": 2, "c": true}

	result := DeepMerge(dst, src)

	if result["a"] != 2 {
		t.Errorf("a = %v, expected src to win", result["a"])
	}
	if result["b"] != "keep" {
		t.Errorf("b = %v, expected dst value to survive", result["b"])
	}
	if result["c"] != true {
		t.Errorf("c = %v, expected src value to be added", result["c"])
	}
}

func TestDeepMerge_NestedMaps(t *testing.T) {
	dst := map[string]any{
		"options": map[string]any{
			"config_file": ".demolint.json",
			"quiet":       false,
		},
	}
	src := map[string]any{
		"options": map[string]any{
			"quiet": true,
		},
	}

	result := DeepMerge(dst, src)

	options := result["options"].(map[string]any)
	if options["quiet"] != true {
		t.Error("expected nested override to win")
	}
	if options["config_file"] != ".demolint.json" {
		t.Error("expected untouched nested key to survive")
	}
}

func TestDeepMerge_ListsReplace(t *testing.T) {
	dst := map[string]any{"args": []any{"--old", "--flags"}}
	src := map[string]any{"args": []any{"--new"}}

	result := DeepMerge(dst, src)

	args := result["args"].([]any)
	if len(args) != 1 || args[0] != "--new" {
		t.Errorf("args = %v, expected lists to replace wholesale", args)
	}
}

func TestDeepMerge_NilMaps(t *testing.T) {
	result := DeepMerge(nil, map[string]any{"a": 1})
	if result["a"] != 1 {
		t.Error("expected merge into nil dst to work")
	}

	dst := map[string]any{"a": 1}
	result = DeepMerge(dst, nil)
	if result["a"] != 1 {
		t.Error("expected nil src to leave dst alone")
	}
}

func TestDeepMerge_ClonesSrcValues(t *testing.T) {
	src := map[string]any{
		"options": map[string]any{"key": "original"},
	}
	result := DeepMerge(map[string]any{}, src)

	src["options"].(map[string]any)["key"] = "mutated"

	options := result["options"].(map[string]any)
	if options["key"] != "original" {
		t.Error("merged values should be cloned, not shared with src")
	}
}

func TestClone_Deep(t *testing.T) {
	original := map[string]any{
		"nested": map[string]any{"key": "value"},
		"list":   []any{1, map[string]any{"inner": true}},
	}

	cloned := Clone(original)
	cloned["nested"].(map[string]any)["key"] = "changed"
	cloned["list"].([]any)[1].(map[string]any)["inner"] = false

	if original["nested"].(map[string]any)["key"] != "value" {
		t.Error("nested map should be independent of the clone")
	}
	if original["list"].([]any)[1].(map[string]any)["inner"] != true {
		t.Error("maps inside lists should be independent of the clone")
	}
}

func TestClone_Nil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestFlattenMap(t *testing.T) {
	data := map[string]any{
		"top": "value",
		"nested": map[string]any{
			"inner": map[string]any{"leaf": 42},
			"other": true,
		},
	}

	flat := FlattenMap(data)

	if flat["top"] != "value" {
		t.Errorf("top = %v", flat["top"])
	}
	if flat["nested.inner.leaf"] != 42 {
		t.Errorf("nested.inner.leaf = %v", flat["nested.inner.leaf"])
	}
	if flat["nested.other"] != true {
		t.Errorf("nested.other = %v", flat["nested.other"])
	}
	if len(flat) != 3 {
		t.Errorf("expected 3 flattened keys, got %d: %v", len(flat), flat)
	}
}
