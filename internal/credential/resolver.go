// Package credential resolves the API key handed to a cloud LLM or
// embedding adapter. The key is returned to the caller and never written
// back into the process environment.
package credential

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// Source records where a key came from.
type Source string

// Key sources, in lookup order.
const (
	SourceFlag     Source = "flag"
	SourceSettings Source = "settings"
	SourceEnv      Source = "environment"
	SourcePrompt   Source = "prompt"
	SourceNone     Source = "none"
)

// PromptFunc asks the user for a key. It returns "" when it cannot ask.
type PromptFunc func(provider domain.AIProvider) (string, error)

// Resolver looks a key up in order: explicit value, settings file,
// provider environment variable, then an interactive prompt.
type Resolver struct {
	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string

	// Prompt is consulted last. Nil never prompts.
	Prompt PromptFunc
}

// Resolve returns the key for provider. Providers that need no key
// resolve to "" with SourceNone. A provider that needs a key but has none
// anywhere also yields SourceNone; callers decide whether that is fatal.
func (r Resolver) Resolve(provider domain.AIProvider, explicit, stored string) (string, Source, error) {
	if !provider.RequiresAPIKey() {
		return "", SourceNone, nil
	}
	if key := strings.TrimSpace(explicit); key != "" {
		return key, SourceFlag, nil
	}
	if key := strings.TrimSpace(stored); key != "" {
		return key, SourceSettings, nil
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if env := provider.APIKeyEnv(); env != "" {
		if key := strings.TrimSpace(getenv(env)); key != "" {
			return key, SourceEnv, nil
		}
	}

	if r.Prompt != nil {
		key, err := r.Prompt(provider)
		if err != nil {
			return "", SourceNone, fmt.Errorf("read API key: %w", err)
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, SourcePrompt, nil
		}
	}
	return "", SourceNone, nil
}

// TerminalPrompt returns a PromptFunc that reads a key without echo when
// in is a terminal. On anything else it declines to ask.
func TerminalPrompt(in *os.File, out io.Writer) PromptFunc {
	return func(provider domain.AIProvider) (string, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return "", nil
		}
		fmt.Fprintf(out, "Enter %s API key (input hidden): ", provider.Description()) //nolint:errcheck
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(out) //nolint:errcheck
		if err != nil {
			return "", err
		}
		return string(key), nil
	}
}

// StdinPrompt reads the key from in: hidden on a terminal, one line
// otherwise, so a key can be piped in.
func StdinPrompt(in *os.File, out io.Writer) PromptFunc {
	if term.IsTerminal(int(in.Fd())) {
		return TerminalPrompt(in, out)
	}
	return ReaderPrompt(in, out)
}

// ReaderPrompt returns a PromptFunc that reads one line from r.
// It is used when input is piped.
func ReaderPrompt(r io.Reader, out io.Writer) PromptFunc {
	reader := bufio.NewReader(r)
	return func(provider domain.AIProvider) (string, error) {
		fmt.Fprintf(out, "Enter %s API key: ", provider.Description()) //nolint:errcheck
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
