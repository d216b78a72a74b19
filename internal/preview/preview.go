// Package preview renders file contents and diffs as highlighted HTML.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultMaxBytes caps how much of a file is read for preview.
const DefaultMaxBytes int64 = 1 << 20

var (
	ErrNotRegular = errors.New("not a regular file")
	ErrBinary     = errors.New("binary file cannot be previewed")
)

// Result is a rendered preview.
type Result struct {
	Name      string `json:"name"`
	Language  string `json:"language"`
	HTML      string `json:"html"`
	Size      int64  `json:"size"`
	Truncated bool   `json:"truncated"`
}

// Options configures a Renderer.
type Options struct {
	Style    string
	MaxBytes int64
}

// Renderer highlights source with one chroma style.
type Renderer struct {
	style     *chroma.Style
	formatter *html.Formatter
	maxBytes  int64
}

// New creates a renderer. Unknown styles fall back to chroma's default.
func New(opts Options) *Renderer {
	style := styles.Get(opts.Style)
	if style == nil {
		style = styles.Fallback
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Renderer{
		style:     style,
		formatter: html.New(html.WithLineNumbers(true), html.TabWidth(4)),
		maxBytes:  maxBytes,
	}
}

// File reads and highlights the file at path. Files larger than the limit
// are cut at the limit and flagged as truncated. Content containing a NUL
// byte is treated as binary.
func (r *Renderer) File(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.maxBytes))
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrBinary)
	}

	name := filepath.Base(path)
	out, lang := r.Highlight(name, string(data))
	return &Result{
		Name:      name,
		Language:  lang,
		HTML:      out,
		Size:      info.Size(),
		Truncated: info.Size() > r.maxBytes,
	}, nil
}

// Diff highlights a unified diff of name.
func (r *Renderer) Diff(name, diff string) *Result {
	if diff == "" {
		diff = "(no changes)\n"
	}
	out, err := r.render(lexers.Get("diff"), diff)
	if err != nil {
		out = escape(diff)
	}
	return &Result{Name: name, Language: "diff", HTML: out, Size: int64(len(diff))}
}

// Highlight returns content as HTML and the name of the lexer used.
func (r *Renderer) Highlight(name, content string) (string, string) {
	// Try to get lexer by filename
	var lexer chroma.Lexer
	if name != "" {
		lexer = lexers.Match(name)
	}

	// Fallback: try to analyze content
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}

	if lexer == nil {
		lexer = lexers.Fallback
	}

	out, err := r.render(lexer, content)
	if err != nil {
		return escape(content), "plaintext"
	}
	return out, lexer.Config().Name
}

func (r *Renderer) render(lexer chroma.Lexer, content string) (string, error) {
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func escape(s string) string {
	return "<pre>" + stdhtml.EscapeString(s) + "</pre>"
}
