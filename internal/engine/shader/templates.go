package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template file names inside a shader directory.
const (
	VertexFile   = "model.vert"
	FragmentFile = "model.frag"
)

// ErrCompile is returned when a program fails to compile or link.
var ErrCompile = errors.New("shader compile failed")

//go:embed model.vert
var defaultVertex string

//go:embed model.frag
var defaultFragment string

// Templates are the vertex and fragment sources every variant is built from.
type Templates struct {
	Vertex   string
	Fragment string
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{Vertex: defaultVertex, Fragment: defaultFragment}
}

// LoadTemplates reads model.vert and model.frag from dir.
func LoadTemplates(dir string) (Templates, error) {
	vert, err := os.ReadFile(filepath.Join(dir, VertexFile))
	if err != nil {
		return Templates{}, fmt.Errorf("reading vertex template: %w", err)
	}
	frag, err := os.ReadFile(filepath.Join(dir, FragmentFile))
	if err != nil {
		return Templates{}, fmt.Errorf("reading fragment template: %w", err)
	}
	return Templates{Vertex: string(vert), Fragment: string(frag)}, nil
}

// withPrefix inserts prefix into src. A leading #version line must stay
// first, so the prefix goes right after it.
func withPrefix(prefix, src string) string {
	if strings.HasPrefix(src, "#version") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			return src[:i+1] + prefix + src[i+1:]
		}
		return src + "\n" + prefix
	}
	return prefix + src
}
