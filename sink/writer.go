// Package sink implements the file-writer Sink adapter spec.md §6 leaves
// abstract: idempotent per-representation writes under a target directory,
// with default/language-variant filename selection.
package sink

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/pathutil"
	"github.com/tangerg/pagestream/pipeline"
	"github.com/tangerg/pagestream/resource"
)

// OnWrite is invoked after a successful write. It is best-effort: its own
// errors do not roll back the write (spec.md §7).
type OnWrite func(pathURL string, c *content.Content, targetPath string)

// Writer is the filesystem writer sink.
type Writer struct {
	targetDir       string
	baseURL         string
	rewriteAlways   bool
	onWrite         OnWrite
	defaultLanguage *langtag.Tag
	logger          *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithRewriteAlways disables the mtime-based idempotency skip: every
// representation is rewritten on every call.
func WithRewriteAlways() Option {
	return func(w *Writer) { w.rewriteAlways = true }
}

// WithOnWrite registers a best-effort callback fired after each write.
func WithOnWrite(cb OnWrite) Option {
	return func(w *Writer) { w.onWrite = cb }
}

// WithDefaultLanguage sets the language used to resolve Resource.Default
// when no representation is language-less.
func WithDefaultLanguage(tag *langtag.Tag) Option {
	return func(w *Writer) { w.defaultLanguage = tag }
}

// WithLogger overrides the writer's slog.Logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) { w.logger = logger }
}

// New builds a Writer that resolves Resource paths against targetDir,
// after stripping baseURL (spec.md §6: "target directory, logical base
// URL").
func New(targetDir, baseURL string, opts ...Option) *Writer {
	w := &Writer{
		targetDir: targetDir,
		baseURL:   baseURL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write resolves r's on-disk directory and writes each representation to
// its chosen filename, skipping files whose existing mtime is newer than
// or equal to the representation's LastModified unless rewriteAlways is
// set.
func (w *Writer) Write(ctx context.Context, r *resource.Resource) error {
	rel, err := pathutil.RemoveBase(r.Path(), w.baseURL)
	if err != nil {
		return err
	}
	dir := filepath.Join(w.targetDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	defaultRep := r.Default(w.defaultLanguage)
	seen := make(map[string]*content.Content)
	for _, c := range r.Contents() {
		name := filename(c, c == defaultRep)
		if prior, dup := seen[name]; dup && prior != c {
			return resource.NewError("two representations resolve to the same filename " + name + " at " + r.Path())
		}
		seen[name] = c

		target := filepath.Join(dir, name)
		if err := w.writeOne(ctx, r.Path(), c, target); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeOne(ctx context.Context, pathURL string, c *content.Content, target string) error {
	if !w.rewriteAlways {
		if info, err := os.Stat(target); err == nil {
			if !info.ModTime().Before(c.LastModified()) {
				return nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	body, err := c.GetBody(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return err
	}
	if err := os.Chtimes(target, c.LastModified(), c.LastModified()); err != nil {
		w.logger.Warn("writer: could not set mtime", "target", target, "error", err)
	}

	if w.onWrite != nil {
		w.onWrite(pathURL, c, target)
	}
	return nil
}

// filename chooses the on-disk name for a representation: "index.<ext>"
// for the default representation, "index.<lang>.<ext>" otherwise
// (spec.md §6).
func filename(c *content.Content, isDefault bool) string {
	ext := extensionFor(c)
	if isDefault || c.Language() == nil {
		return "index" + ext
	}
	return "index." + c.Language().String() + ext
}

// preferredExtension picks a canonical extension for media types whose
// mime.ExtensionsByType result is ambiguous (e.g. "text/html" resolves to
// both ".htm" and ".html" in sorted order; the writer always wants the
// longer, conventional form).
var preferredExtension = map[string]string{
	"text/html":        ".html",
	"text/plain":       ".txt",
	"text/css":         ".css",
	"text/markdown":    ".md",
	"application/json": ".json",
	"image/svg+xml":    ".svg",
}

func extensionFor(c *content.Content) string {
	if ext, ok := preferredExtension[c.Type().TypeAndSubtype()]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(c.Type().TypeAndSubtype())
	if err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// ForEach adapts Write to a pipeline.ForEachFunc bound to ctx, for use with
// Pipeline.ForEach / ForEachWithReloading.
func (w *Writer) ForEach(ctx context.Context) pipeline.ForEachFunc {
	return func(r *resource.Resource, index int) (pipeline.Pending, error) {
		return nil, w.Write(ctx, r)
	}
}
