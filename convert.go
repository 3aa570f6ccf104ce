package epubtext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// partSeparator joins consecutive stripped parts.
const partSeparator = " "

// Converter turns an ePub into a text file. The zero value is not usable;
// create one with New.
type Converter struct {
	logger       *zap.Logger
	open         OpenFunc
	strip        Stripper
	outputPath   func(string) string
	concurrency  int
	readingOrder bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOpener replaces the archive parser.
func WithOpener(open OpenFunc) Option {
	return func(c *Converter) {
		if open != nil {
			c.open = open
		}
	}
}

// WithReadingOrder reads only the spine documents, in reading order, instead
// of every document in manifest order. It combines with WithOpener in any
// order; the opened archive must implement ReadingOrderArchive.
func WithReadingOrder() Option {
	return func(c *Converter) {
		c.readingOrder = true
	}
}

// WithStripper replaces the tag stripper. The default is RegexpStripper.
func WithStripper(s Stripper) Option {
	return func(c *Converter) {
		if s != nil {
			c.strip = s
		}
	}
}

// WithOutputPath replaces the function that derives the output path from the
// input path. The default is OutputPath.
func WithOutputPath(fn func(string) string) Option {
	return func(c *Converter) {
		if fn != nil {
			c.outputPath = fn
		}
	}
}

// WithConcurrency strips up to n parts at once. Output order is unaffected.
// Values below 1 are treated as 1.
func WithConcurrency(n int) Option {
	return func(c *Converter) {
		c.concurrency = max(n, 1)
	}
}

// New returns a Converter with the given options applied.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger:      zap.NewNop(),
		open:        OpenEPub,
		strip:       RegexpStripper,
		outputPath:  OutputPath,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts the ePub at path with the default settings and returns
// the path of the written text file.
func Convert(path string) (string, error) {
	return New().Convert(path)
}

// Convert converts the book at path and returns the path of the written text
// file.
//
// The book is read completely and closed before the output is created, so an
// ErrOpen failure never touches the output file. An existing output file is
// truncated.
func (c *Converter) Convert(path string) (string, error) {
	text, err := c.extract(path)
	if err != nil {
		return "", err
	}

	out := c.outputPath(path)
	if err := writeText(out, text); err != nil {
		return "", err
	}

	c.logger.Info("wrote converted text",
		zap.String("input", path),
		zap.String("output", out),
		zap.Int("bytes", len(text)))
	return out, nil
}

// extract opens the book and returns its stripped, joined text.
func (c *Converter) extract(path string) (string, error) {
	c.logger.Debug("opening archive", zap.String("path", path))

	archive, err := c.open(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer archive.Close()

	if w, ok := archive.(interface{ Warnings() []string }); ok {
		if warnings := w.Warnings(); len(warnings) > 0 {
			c.logger.Warn("archive parsed with warnings",
				zap.String("path", path),
				zap.Strings("warnings", warnings))
		}
	}

	parts, err := c.parts(archive)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	texts := make([]string, len(parts))

	// The first failure cancels ctx; parts not yet started are skipped.
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(c.concurrency)
	for i, part := range parts {
		i, part := i, part
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			body, err := part.BodyContent()
			if err != nil {
				return fmt.Errorf("%w %s: part %d: %w", ErrOpen, path, i, err)
			}
			text, err := c.strip(body)
			if err != nil {
				return fmt.Errorf("%w %s: strip part %d: %w", ErrOpen, path, i, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	c.logger.Debug("stripped document parts",
		zap.String("path", path),
		zap.Int("parts", len(parts)))
	return strings.Join(texts, partSeparator), nil
}

// parts lists the archive's parts in manifest or reading order.
func (c *Converter) parts(archive Archive) ([]Part, error) {
	if !c.readingOrder {
		return archive.Parts(), nil
	}
	ro, ok := archive.(ReadingOrderArchive)
	if !ok {
		return nil, ErrNoReadingOrder
	}
	return ro.ReadingOrderParts(), nil
}

// writeText creates or truncates path and writes text to it. Errors from
// Close are reported so a failed flush is not mistaken for success.
func writeText(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
