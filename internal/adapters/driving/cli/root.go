// Package cli provides the resume-ats command line interface.
//
// Commands reach the core only through the driving ports. The composition
// root supplies factories with SetFactories; the services are built on
// first use, after flags are parsed, so that --api-key and --ephemeral
// can shape them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options are the global flags handed to the factories.
type Options struct {
	// APIKey is the explicit LLM credential from --api-key.
	APIKey string

	// Ephemeral keeps settings in memory only.
	Ephemeral bool

	// Interactive allows the factory to prompt for a missing key.
	Interactive bool

	// CheckServices asks the factory to ping the configured providers
	// before returning.
	CheckServices bool
}

// checkServicesAnnotation marks long-running commands whose providers are
// pinged at startup.
const checkServicesAnnotation = "resume-ats/check-services"

// Factories build the driving services. Analyzer returns a cleanup func.
type Factories struct {
	Settings func(opts Options) (driving.SettingsService, error)
	Analyzer func(ctx context.Context, opts Options) (driving.AnalyzerService, func(), error)
}

var (
	factories Factories

	mu              sync.Mutex
	analyzerService driving.AnalyzerService
	settingsService driving.SettingsService
	cleanups        []func()

	apiKeyFlag    string
	ephemeralFlag bool
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "resume-ats",
	Short: "Review résumés with retrieval-augmented generation",
	Long: `resume-ats reads a résumé (PDF or text), indexes it in memory and asks a
language model for structured feedback: strengths, weaknesses, skill gaps,
ATS score and missing keywords.

Every analysis builds a fresh index. Nothing about the résumé is stored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log each pipeline stage to stderr")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "LLM API key (overrides settings and environment)")
	rootCmd.PersistentFlags().BoolVar(&ephemeralFlag, "ephemeral", false, "do not read or write ~/.resume-ats")
}

// SetVersion sets the version reported by 'resume-ats version'.
func SetVersion(v string) {
	version = v
}

// SetFactories registers how services are built.
func SetFactories(f Factories) {
	factories = f
}

// SetAnalyzerService injects a ready analyzer, bypassing the factory.
func SetAnalyzerService(s driving.AnalyzerService) {
	mu.Lock()
	defer mu.Unlock()
	analyzerService = s
}

// SetSettingsService injects a ready settings service, bypassing the factory.
func SetSettingsService(s driving.SettingsService) {
	mu.Lock()
	defer mu.Unlock()
	settingsService = s
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func options(interactive bool) Options {
	return Options{
		APIKey:      apiKeyFlag,
		Ephemeral:   ephemeralFlag,
		Interactive: interactive,
	}
}

// analyzer returns the analyzer, building it on first use. generates
// marks commands that will call the model and may prompt for a key.
func analyzer(cmd *cobra.Command, generates bool) (driving.AnalyzerService, error) {
	mu.Lock()
	defer mu.Unlock()
	if analyzerService != nil {
		return analyzerService, nil
	}
	if factories.Analyzer == nil {
		return nil, errors.New("analyzer service not configured")
	}
	opts := options(generates)
	opts.CheckServices = cmd.Annotations[checkServicesAnnotation] == "true"
	svc, cleanup, err := factories.Analyzer(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		cleanups = append(cleanups, cleanup)
	}
	analyzerService = svc
	return svc, nil
}

func settings() (driving.SettingsService, error) {
	mu.Lock()
	defer mu.Unlock()
	if settingsService != nil {
		return settingsService, nil
	}
	if factories.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := factories.Settings(options(false))
	if err != nil {
		return nil, err
	}
	settingsService = svc
	return svc, nil
}

func closeServices() {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range cleanups {
		c()
	}
	cleanups = nil
}

// Exit codes by error kind.
const (
	ExitOK            = 0
	ExitInternal      = 1
	ExitConfiguration = 2
	ExitLoad          = 3
	ExitEmbedding     = 4
	ExitIndex         = 5
	ExitGeneration    = 6
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch domain.KindOf(err) {
	case domain.ErrConfiguration:
		return ExitConfiguration
	case domain.ErrLoad:
		return ExitLoad
	case domain.ErrEmbedding:
		return ExitEmbedding
	case domain.ErrIndex:
		return ExitIndex
	case domain.ErrGeneration:
		return ExitGeneration
	default:
		return ExitInternal
	}
}

// FormatError renders err for stderr with a hint for the common fixes.
func FormatError(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		msg += "\nSet GOOGLE_API_KEY, pass --api-key, or run 'resume-ats settings llm'."
	case errors.Is(err, domain.ErrUnsupportedType):
		msg += "\nSupported formats: PDF, plain text and Markdown."
	case errors.Is(err, domain.ErrNoText):
		msg += "\nThe document has no extractable text. Scanned PDFs need OCR first."
	}
	if pages := domain.PagesOf(err); pages > 0 {
		msg += fmt.Sprintf("\n(%d page(s) were loaded before the failure)", pages)
	}
	return msg
}
