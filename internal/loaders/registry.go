package loaders

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest-priority loader that
// accepts them. A known file extension wins over content sniffing so that
// a corrupt "resume.pdf" is reported as an invalid PDF rather than
// misread as text.
type Registry struct {
	mu      sync.RWMutex
	loaders []driven.DocumentLoader
}

// NewRegistry creates a registry holding the given loaders.
func NewRegistry(loaders ...driven.DocumentLoader) *Registry {
	r := &Registry{}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Register adds a loader to the registry.
func (r *Registry) Register(loader driven.DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = append(r.loaders, loader)
	sort.SliceStable(r.loaders, func(i, j int) bool {
		return r.loaders[i].Priority() > r.loaders[j].Priority()
	})
}

// SupportedMIMETypes returns all MIME types that can be loaded.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, l := range r.loaders {
		for _, m := range l.SupportedMIMETypes() {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Load extracts the document using the best matching loader.
// Every error returned matches domain.ErrLoad.
func (r *Registry) Load(ctx context.Context, data []byte, name string) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w: empty document", domain.ErrLoad, domain.ErrInvalidInput)
	}

	loader, mimeType := r.selectLoader(data, name)
	if loader == nil {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrLoad, domain.ErrUnsupportedType, mimeType)
	}

	doc, err := loader.Load(ctx, data, name)
	if err != nil {
		if !errors.Is(err, domain.ErrLoad) {
			err = fmt.Errorf("%w: %w", domain.ErrLoad, err)
		}
		return nil, err
	}
	if doc.MIMEType == "" {
		doc.MIMEType = mimeType
	}
	return doc, nil
}

func (r *Registry) selectLoader(data []byte, name string) (driven.DocumentLoader, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		for _, l := range r.loaders {
			for _, e := range l.SupportedExtensions() {
				if e == ext {
					return l, firstOr(l.SupportedMIMETypes(), ext)
				}
			}
		}
	}

	detected := DetectMIMEType(data)
	for _, l := range r.loaders {
		for _, m := range l.SupportedMIMETypes() {
			if m == detected {
				return l, detected
			}
		}
	}
	return nil, detected
}

// DetectMIMEType sniffs the content type and drops any parameters.
func DetectMIMEType(data []byte) string {
	ct := http.DetectContentType(data)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
