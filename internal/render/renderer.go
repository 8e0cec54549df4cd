// Package render evaluates user-configured patterns against a video context
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/amaumene/videosync/internal/models"
)

// Renderer compiles patterns with pongo2 and caches the compiled templates.
// Output is never HTML-escaped: patterns produce post bodies.
type Renderer struct {
	mu        sync.Mutex
	templates map[string]*pongo2.Template
}

// NewRenderer creates a renderer with an empty template cache
func NewRenderer() *Renderer {
	return &Renderer{
		templates: make(map[string]*pongo2.Template),
	}
}

// Render evaluates pattern against ctx. Bare {name} references are accepted
// alongside {{name}}. An empty pattern renders to an empty string.
func (r *Renderer) Render(pattern string, ctx map[string]any) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", nil
	}

	tpl, err := r.compile(pattern)
	if err != nil {
		return "", err
	}

	out, err := tpl.Execute(pongo2.Context(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to render pattern: %v: %w", err, models.ErrFormat)
	}
	return strings.TrimSpace(out), nil
}

// RenderVideo renders pattern with the flattened video as context
func (r *Renderer) RenderVideo(pattern string, video *models.Video) (string, error) {
	return r.Render(pattern, video.Context())
}

func (r *Renderer) compile(pattern string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.templates[pattern]; ok {
		return tpl, nil
	}

	source := "{% autoescape off %}" + RewriteBraces(pattern) + "{% endautoescape %}"
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %v: %w", pattern, err, models.ErrFormat)
	}
	r.templates[pattern] = tpl
	return tpl, nil
}

// RewriteBraces turns bare {name} references into {{name}}. Existing
// {{ }}, {% %} and {# #} tokens are copied through untouched.
func RewriteBraces(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 16)

	for i := 0; i < len(pattern); {
		if pattern[i] != '{' {
			b.WriteByte(pattern[i])
			i++
			continue
		}

		if i+1 < len(pattern) {
			if closer, ok := tokenCloser(pattern[i+1]); ok {
				end := strings.Index(pattern[i+2:], closer)
				if end < 0 {
					b.WriteString(pattern[i:])
					break
				}
				stop := i + 2 + end + len(closer)
				b.WriteString(pattern[i:stop])
				i = stop
				continue
			}
		}

		if name, n := bareReference(pattern[i:]); n > 0 {
			b.WriteString("{{ ")
			b.WriteString(name)
			b.WriteString(" }}")
			i += n
			continue
		}

		b.WriteByte('{')
		i++
	}
	return b.String()
}

func tokenCloser(c byte) (string, bool) {
	switch c {
	case '{':
		return "}}", true
	case '%':
		return "%}", true
	case '#':
		return "#}", true
	default:
		return "", false
	}
}

// bareReference matches "{ident}" or "{ident.attr}" at the start of s and
// returns the identifier and the consumed length.
func bareReference(s string) (string, int) {
	end := strings.IndexByte(s, '}')
	if end < 2 {
		return "", 0
	}
	name := strings.TrimSpace(s[1:end])
	if !isIdentifier(name) {
		return "", 0
	}
	return name, end + 1
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && ((c >= '0' && c <= '9') || c == '.'):
		default:
			return false
		}
	}
	return !strings.HasSuffix(name, ".")
}
