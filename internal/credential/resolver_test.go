package credential

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

func envMap(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestResolver_Resolve_Order(t *testing.T) {
	prompted := func(domain.AIProvider) (string, error) { return "from-prompt", nil }
	env := envMap(map[string]string{"GOOGLE_API_KEY": "from-env"})

	tests := []struct {
		name       string
		resolver   Resolver
		explicit   string
		stored     string
		wantKey    string
		wantSource Source
	}{
		{name: "explicit wins", resolver: Resolver{Getenv: env, Prompt: prompted},
			explicit: "from-flag", stored: "from-file", wantKey: "from-flag", wantSource: SourceFlag},
		{name: "settings before env", resolver: Resolver{Getenv: env, Prompt: prompted},
			stored: "from-file", wantKey: "from-file", wantSource: SourceSettings},
		{name: "env before prompt", resolver: Resolver{Getenv: env, Prompt: prompted},
			wantKey: "from-env", wantSource: SourceEnv},
		{name: "prompt last", resolver: Resolver{Getenv: envMap(nil), Prompt: prompted},
			wantKey: "from-prompt", wantSource: SourcePrompt},
		{name: "nothing found", resolver: Resolver{Getenv: envMap(nil)},
			wantKey: "", wantSource: SourceNone},
		{name: "whitespace is ignored", resolver: Resolver{Getenv: env},
			explicit: "   ", stored: "\t", wantKey: "from-env", wantSource: SourceEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, source, err := tt.resolver.Resolve(domain.AIProviderGoogle, tt.explicit, tt.stored)

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestResolver_Resolve_ProviderEnvVar(t *testing.T) {
	env := envMap(map[string]string{
		"OPENAI_API_KEY":    "sk-openai",
		"ANTHROPIC_API_KEY": "sk-ant",
		"GOOGLE_API_KEY":    "g-key",
	})
	r := Resolver{Getenv: env}

	for provider, want := range map[domain.AIProvider]string{
		domain.AIProviderOpenAI:    "sk-openai",
		domain.AIProviderAnthropic: "sk-ant",
		domain.AIProviderGoogle:    "g-key",
	} {
		key, source, err := r.Resolve(provider, "", "")
		require.NoError(t, err)
		assert.Equal(t, want, key, provider)
		assert.Equal(t, SourceEnv, source)
	}
}

func TestResolver_Resolve_LocalProviderNeedsNoKey(t *testing.T) {
	called := false
	r := Resolver{
		Getenv: envMap(nil),
		Prompt: func(domain.AIProvider) (string, error) { called = true; return "x", nil },
	}

	key, source, err := r.Resolve(domain.AIProviderOllama, "ignored", "")

	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Equal(t, SourceNone, source)
	assert.False(t, called)
}

func TestResolver_Resolve_PromptError(t *testing.T) {
	r := Resolver{
		Getenv: envMap(nil),
		Prompt: func(domain.AIProvider) (string, error) { return "", errors.New("tty closed") },
	}

	_, source, err := r.Resolve(domain.AIProviderGoogle, "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty closed")
	assert.Equal(t, SourceNone, source)
}

func TestResolver_Resolve_DoesNotTouchEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	key, _, err := Resolver{}.Resolve(domain.AIProviderGoogle, "explicit-key", "")

	require.NoError(t, err)
	assert.Equal(t, "explicit-key", key)
	assert.Empty(t, os.Getenv("GOOGLE_API_KEY"))
}

func TestResolver_Resolve_DefaultGetenv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	key, source, err := Resolver{}.Resolve(domain.AIProviderAnthropic, "", "")

	require.NoError(t, err)
	assert.Equal(t, "sk-ant-env", key)
	assert.Equal(t, SourceEnv, source)
}

func TestReaderPrompt(t *testing.T) {
	var out bytes.Buffer
	prompt := ReaderPrompt(strings.NewReader("  sk-piped  \n"), &out)

	key, err := prompt(domain.AIProviderOpenAI)

	require.NoError(t, err)
	assert.Equal(t, "sk-piped", key)
	assert.Contains(t, out.String(), "OpenAI")
}

func TestReaderPrompt_EOFWithoutNewline(t *testing.T) {
	prompt := ReaderPrompt(strings.NewReader("sk-last"), &bytes.Buffer{})

	key, err := prompt(domain.AIProviderOpenAI)

	require.NoError(t, err)
	assert.Equal(t, "sk-last", key)
}

func TestTerminalPrompt_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	key, err := TerminalPrompt(f, &out)(domain.AIProviderGoogle)

	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, out.String())
}

func TestStdinPrompt_Piped(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.WriteString("sk-from-pipe\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	resolver := Resolver{
		Getenv: envMap(nil),
		Prompt: StdinPrompt(r, &out),
	}
	key, source, err := resolver.Resolve(domain.AIProviderOpenAI, "", "")

	require.NoError(t, err)
	assert.Equal(t, "sk-from-pipe", key)
	assert.Equal(t, SourcePrompt, source)
	assert.Contains(t, out.String(), "Enter OpenAI (cloud) API key:")
}
