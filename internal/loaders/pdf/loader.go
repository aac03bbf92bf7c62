// Package pdf provides a document loader for PDF résumés.
//
// Text is extracted in-process with ledongthuc/pdf after the file has been
// structurally validated with pdfcpu. When the in-process extractor finds
// no text and poppler's pdftotext is installed, it is used as a fallback.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// MIMEType is the content type this loader handles.
const MIMEType = "application/pdf"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// documentNamespace seeds deterministic document IDs.
var documentNamespace = uuid.MustParse("0b4b7c1e-5d8a-4f63-8e0a-7c3d2e9f6a41")

// headerWindow is how far into the file the %PDF- marker may appear.
const headerWindow = 1024

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Loader extracts page text from PDF bytes.
type Loader struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
	tempDir  string
}

// Option configures the loader.
type Option func(*Loader)

// WithRunner injects the command runner used for the pdftotext fallback.
func WithRunner(runner CommandRunner) Option {
	return func(l *Loader) {
		l.runner = runner
	}
}

// WithoutFallback disables the pdftotext fallback.
func WithoutFallback() Option {
	return func(l *Loader) {
		l.runner = nil
	}
}

// WithTempDir sets where the fallback materialises the PDF.
func WithTempDir(dir string) Option {
	return func(l *Loader) {
		l.tempDir = dir
	}
}

// New creates a PDF loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		runner:   execRunner{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// SupportedExtensions returns the file extensions this loader handles.
func (l *Loader) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 50
}

// Load validates the PDF and extracts one page of text per PDF page.
func (l *Loader) Load(ctx context.Context, data []byte, name string) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w: empty document", domain.ErrLoad, domain.ErrInvalidInput)
	}
	if !hasHeader(data) {
		return nil, fmt.Errorf("%w: not a PDF file", domain.ErrLoad)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("%w: invalid PDF: %w", domain.ErrLoad, err)
	}

	pages, err := extract(data)
	if err != nil {
		logger.Debug("pdf: in-process extraction failed: %v", err)
	}

	if !hasText(pages) && l.fallbackAvailable() {
		logger.Info("pdf: no text from in-process extractor, trying pdftotext")
		fallback, ferr := l.extractWithTool(ctx, data)
		if ferr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLoad, ferr)
		}
		pages, err = fallback, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read PDF: %w", domain.ErrLoad, err)
	}
	if !hasText(pages) {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoad, domain.ErrNoText)
	}

	return &domain.Document{
		ID:       uuid.NewSHA1(documentNamespace, data).String(),
		Name:     filepath.Base(name),
		MIMEType: MIMEType,
		Size:     len(data),
		Pages:    pages,
	}, nil
}

func hasHeader(data []byte) bool {
	head := data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

func validate(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(data), conf)
}

// extract reads every page with ledongthuc/pdf. The library panics on some
// malformed inputs, so panics are turned into errors.
func extract(data []byte) (pages []domain.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	n := reader.NumPage()
	pages = make([]domain.Page, 0, n)
	for i := 1; i <= n; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}
	return pages, nil
}

func (l *Loader) fallbackAvailable() bool {
	return l.runner != nil && checkTool(l.lookPath) == nil
}

// extractWithTool writes data to a temporary file, runs pdftotext on it and
// splits the output on form feeds. The file is removed on every path.
func (l *Loader) extractWithTool(ctx context.Context, data []byte) ([]domain.Page, error) {
	f, err := os.CreateTemp(l.tempDir, "resume-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.Write(data); err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return splitPages(string(out)), nil
}

// splitPages turns pdftotext output into pages. pdftotext ends every page
// with a form feed.
func splitPages(out string) []domain.Page {
	parts := strings.Split(out, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]domain.Page, len(parts))
	for i, p := range parts {
		pages[i] = domain.Page{Number: i + 1, Text: p}
	}
	return pages
}

func hasText(pages []domain.Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	return checkTool(exec.LookPath)
}

func checkTool(lookPath func(string) (string, error)) error {
	if _, err := lookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install the pdftotext fallback.
func InstallInstructions() string {
	return `pdftotext is optional and used only for PDFs the built-in extractor cannot read.
Install poppler:
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}
