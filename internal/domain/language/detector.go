package language

import (
	"path/filepath"
	"strings"
)

// extensionMap is the fixed extension → language tag mapping.
var extensionMap = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".go":   "go",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
}

// Detect returns a language tag for the given code and/or filename.
// Filename extension wins; then code heuristics; fallback "text".
// Never fails.
func Detect(code, filename string) string {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if lang, ok := extensionMap[ext]; ok {
			return lang
		}
	}
	if code != "" {
		if strings.Contains(code, "def ") || strings.Contains(code, "import ") {
			return "python"
		}
		if strings.Contains(code, "const ") || strings.Contains(code, "function ") {
			return "javascript"
		}
	}
	return "text"
}

// Supported reports whether the filename has a reviewable extension.
func Supported(filename string) bool {
	_, ok := extensionMap[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extensions returns a copy of the extension → language mapping.
func Extensions() map[string]string {
	out := make(map[string]string, len(extensionMap))
	for ext, lang := range extensionMap {
		out[ext] = lang
	}
	return out
}
