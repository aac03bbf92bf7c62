package loaders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/loaders/pdf"
	"github.com/custodia-labs/resume-ats/internal/loaders/pdf/pdftest"
	"github.com/custodia-labs/resume-ats/internal/loaders/plaintext"
)

type stubLoader struct {
	mimes    []string
	exts     []string
	priority int
	err      error
	calls    int
}

func (s *stubLoader) SupportedMIMETypes() []string  { return s.mimes }
func (s *stubLoader) SupportedExtensions() []string { return s.exts }
func (s *stubLoader) Priority() int                 { return s.priority }
func (s *stubLoader) Load(_ context.Context, _ []byte, name string) (*domain.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Document{Name: name, Pages: []domain.Page{{Number: 1, Text: "x"}}}, nil
}

func newDefaultRegistry() *Registry {
	return NewRegistry(pdf.New(pdf.WithoutFallback()), plaintext.New())
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := newDefaultRegistry()
	assert.Equal(t, []string{"application/pdf", "text/markdown", "text/plain"}, r.SupportedMIMETypes())
}

func TestRegistry_LoadsPDFByExtension(t *testing.T) {
	doc, err := newDefaultRegistry().Load(context.Background(), pdftest.Build("Go, Kafka"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
	assert.Contains(t, doc.Pages[0].Text, "Go, Kafka")
}

func TestRegistry_LoadsPDFBySniffing(t *testing.T) {
	doc, err := newDefaultRegistry().Load(context.Background(), pdftest.Build("Go, Kafka"), "upload")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
}

func TestRegistry_CorruptPDFIsLoadError(t *testing.T) {
	_, err := newDefaultRegistry().Load(context.Background(), []byte("plain words, not a pdf"), "resume.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestRegistry_TextBySniffing(t *testing.T) {
	doc, err := newDefaultRegistry().Load(context.Background(), []byte("Data engineer with Spark"), "")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", doc.MIMEType)
}

func TestRegistry_Unsupported(t *testing.T) {
	zip := []byte("PK\x03\x04\x14\x00\x06\x00")
	_, err := newDefaultRegistry().Load(context.Background(), zip, "resume.docx")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_Empty(t *testing.T) {
	_, err := newDefaultRegistry().Load(context.Background(), nil, "resume.pdf")
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_PriorityOrder(t *testing.T) {
	low := &stubLoader{mimes: []string{"text/plain"}, priority: 1}
	high := &stubLoader{mimes: []string{"text/plain"}, priority: 90}
	r := NewRegistry(low, high)

	_, err := r.Load(context.Background(), []byte("hello"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, high.calls)
	assert.Zero(t, low.calls)
}

func TestRegistry_WrapsLoaderErrors(t *testing.T) {
	failing := &stubLoader{exts: []string{".cv"}, err: errors.New("boom")}
	r := NewRegistry(failing)

	_, err := r.Load(context.Background(), []byte("data"), "x.cv")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.Contains(t, err.Error(), "boom")
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMIMEType([]byte("%PDF-1.7\n")))
	assert.Equal(t, "text/plain", DetectMIMEType([]byte("hello world")))
}
