package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/loaders/pdf"
)

// checkPDFTool reports whether the pdftotext fallback can run.
var checkPDFTool = pdf.CheckAvailable

var (
	pipelineChunkSize int
	pipelineOverlap   int
	pipelineTopK      int
	pipelineBudget    int
	pipelineBackend   string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI providers and pipeline parameters.

Settings live in ~/.resume-ats/config.toml. Use subcommands to change a
single section or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the LLM and embedding providers.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the provider used to embed résumé chunks and questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the language model that writes the analysis.`,
	RunE:  runSettingsLLM,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Set chunking and retrieval parameters",
	Long: `Set chunk size, overlap, top-k, context budget and index backend.
Only the flags given are changed.`,
	Example: `  resume-ats settings pipeline --chunk-size 600 --overlap 80
  resume-ats settings pipeline --top-k 5 --backend chromem`,
	RunE: runSettingsPipeline,
}

var settingsTemperatureCmd = &cobra.Command{
	Use:   "temperature [value]",
	Short: "Set the sampling temperature (0 to 1)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsTemperature,
}

func init() {
	f := settingsPipelineCmd.Flags()
	f.IntVar(&pipelineChunkSize, "chunk-size", 0, "maximum chunk length in characters")
	f.IntVar(&pipelineOverlap, "overlap", 0, "characters shared by consecutive chunks")
	f.IntVar(&pipelineTopK, "top-k", 0, "passages retrieved per question")
	f.IntVar(&pipelineBudget, "budget", 0, "context token budget (0 = unbounded)")
	f.StringVar(&pipelineBackend, "backend", "", "vector index backend (memory, chromem)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	settingsCmd.AddCommand(settingsTemperatureCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	s, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", s.LLM.Model)
	if s.LLM.Provider.NeedsBaseURL() {
		cmd.Printf("  Base URL: %s\n", s.LLM.BaseURL)
	}
	if s.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(s.LLM.APIKey, s.LLM.Provider))
	}
	cmd.Printf("  Temperature: %.2f\n", s.LLM.Temperature)
	cmd.Printf("  Timeout: %s\n", s.LLM.Timeout)
	if s.LLM.MaxTokens > 0 {
		cmd.Printf("  Max tokens: %d\n", s.LLM.MaxTokens)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", s.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	if s.Embedding.Provider.NeedsBaseURL() {
		cmd.Printf("  Base URL: %s\n", s.Embedding.BaseURL)
	}
	if s.Embedding.Provider == domain.AIProviderLocal {
		cmd.Printf("  Dimensions: %d\n", s.Embedding.Dimensions)
	}
	if s.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(s.Embedding.APIKey, s.Embedding.Provider))
	}
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Chunk size: %d\n", s.Pipeline.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", s.Pipeline.ChunkOverlap)
	cmd.Printf("  Top-k: %d\n", s.Pipeline.TopK)
	if s.Pipeline.ContextBudget > 0 {
		cmd.Printf("  Context budget: %d tokens\n", s.Pipeline.ContextBudget)
	} else {
		cmd.Println("  Context budget: unbounded")
	}
	cmd.Printf("  Index backend: %s\n", s.Pipeline.IndexBackend)
	cmd.Println()

	cmd.Println("[Loaders]")
	if err := checkPDFTool(); err != nil {
		cmd.Println("  PDF fallback: not installed")
		if verboseFlag {
			for _, line := range strings.Split(pdf.InstallInstructions(), "\n") {
				cmd.Printf("    %s\n", line)
			}
		} else {
			cmd.Println("  Run with --verbose for install steps.")
		}
	} else {
		cmd.Println("  PDF fallback: pdftotext")
	}
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

// describeKey reports a stored key masked, or where one would be read from.
func describeKey(key string, provider domain.AIProvider) string {
	if key != "" {
		return maskAPIKey(key)
	}
	if env := provider.APIKeyEnv(); env != "" && os.Getenv(env) != "" {
		return "(from $" + env + ")"
	}
	return "(not set)"
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	cmd.Println("Resume ATS Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, svc, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("The built-in local embedder works offline and needs no key.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, svc, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	return configureEmbeddingProvider(cmd, svc, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	return configureLLMProvider(cmd, svc, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsPipeline(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	s, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := s.Pipeline
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		p.ChunkSize = pipelineChunkSize
	}
	if flags.Changed("overlap") {
		p.ChunkOverlap = pipelineOverlap
	}
	if flags.Changed("top-k") {
		p.TopK = pipelineTopK
	}
	if flags.Changed("budget") {
		p.ContextBudget = pipelineBudget
	}
	if flags.Changed("backend") {
		p.IndexBackend = domain.IndexBackend(strings.ToLower(pipelineBackend))
	}

	if err := svc.SetPipeline(p); err != nil {
		return err
	}

	cmd.Printf("Pipeline updated: chunk size %d, overlap %d, top-k %d, backend %s\n",
		p.ChunkSize, p.ChunkOverlap, p.TopK, p.IndexBackend)
	return nil
}

func runSettingsTemperature(cmd *cobra.Command, args []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	t, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return domain.NewPipelineError(domain.ErrConfiguration, domain.StageConfigure, 0,
			&domain.InvalidValueError{Field: "temperature", Value: args[0], Reason: "not a number"})
	}
	if err := svc.SetTemperature(t); err != nil {
		return err
	}

	cmd.Printf("Temperature set to %.2f\n", t)
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, svc driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := svc.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := svc.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// configureLLMProvider stores the choice even when no key is given, since
// the key may come from the environment or --api-key at run time.
//
//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, svc driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (blank to use $%s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := svc.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	if apiKey == "" && selectedProvider.RequiresAPIKey() {
		cmd.Printf("LLM provider configured: %s (%s), key read at run time\n\n", selectedProvider.Description(), model)
		return nil
	}

	cmd.Print("Validating configuration... ")
	if err := svc.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise it
// reads a line from the buffered reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
