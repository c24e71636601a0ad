package adapter

import "testing"

func TestFiletype(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"/abs/path/init.lua", "lua"},
		{"script.py", "python"},
		{"app.js", "javascript"},
		{"view.jsx", "javascriptreact"},
		{"index.ts", "typescript"},
		{"page.TSX", "typescriptreact"},
		{"lib.rb", "ruby"},
		{"main.rs", "rust"},
		{"core.c", "c"},
		{"core.hpp", "cpp"},
		{"Main.java", "java"},
		{"setup.sh", "sh"},
		{"Token.sol", "solidity"},
		{"data.json", "json"},
		{"ci.yml", "yaml"},
		{"config.toml", "toml"},
		{"README.md", "markdown"},
		{"schema.sql", "sql"},
		{"api.proto", "proto"},
		{"main.tf", "terraform"},
		{"Dockerfile", "dockerfile"},
		{"Makefile", "makefile"},
		{"notes.zig", "zig"},
		{"no-extension", ""},
	}

	for _, tt := range tests {
		if got := Filetype(tt.path); got != tt.want {
			t.Errorf("Filetype(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
