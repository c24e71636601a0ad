package adapter

import (
	"path/filepath"
	"strings"
)

// Filetype derives a filetype identifier from a path's extension.
// Unknown extensions map to the bare extension so adapters can still
// scope themselves to uncommon tools.
func Filetype(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".go":
		return "go"
	case ".lua":
		return "lua"
	case ".py", ".pyw":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "javascriptreact"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "typescriptreact"
	case ".rb":
		return "ruby"
	case ".rs":
		return "rust"
	case ".c", ".h":
		return "c"
	case ".cc", ".cpp", ".cxx", ".hpp", ".hxx":
		return "cpp"
	case ".java":
		return "java"
	case ".sh", ".bash":
		return "sh"
	case ".sol":
		return "solidity"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".sql":
		return "sql"
	case ".proto":
		return "proto"
	case ".tf":
		return "terraform"
	case ".docker", ".dockerfile":
		return "dockerfile"
	default:
		if base := strings.ToLower(filepath.Base(path)); base == "dockerfile" || base == "makefile" {
			return base
		}
		return strings.TrimPrefix(ext, ".")
	}
}
