package reflection

import (
	"path/filepath"
	"sort"

	"codemag/internal/port"
)

// registry maps file extensions to reflectors. It is only written from init.
var registry = map[string]port.Reflector{}

// Register adds a reflector for each of its extensions, replacing any
// earlier registration.
func Register(r port.Reflector) {
	for _, ext := range r.Extensions() {
		registry[ext] = r
	}
}

// ForExtension returns the reflector registered for ext (".php"), or nil.
func ForExtension(ext string) port.Reflector {
	return registry[ext]
}

// ForPath picks a reflector by the extension of path, or nil.
func ForPath(path string) port.Reflector {
	return ForExtension(filepath.Ext(path))
}

// Extensions lists every registered extension in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
