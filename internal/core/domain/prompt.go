package domain

// Prompt placeholders substituted by the assembler.
const (
	PlaceholderContext = "{context}"
	PlaceholderInput   = "{input}"
)

// DefaultAnalyzePrompt is the built-in review template.
const DefaultAnalyzePrompt = `You are a senior hiring manager reviewing a candidate's resume.

Context:
{context}

Question:
{input}

Provide structured output with clear sections:
1. Key Strengths
2. Weaknesses
3. Skill Gaps
4. Specific Improvement Suggestions`

// DefaultContextSeparator joins retrieved chunks inside {context}.
const DefaultContextSeparator = "\n\n"

// Prompt is an assembled prompt ready for generation.
type Prompt struct {
	// Text is the final prompt.
	Text string

	// Tokens is the size of Text as measured by the configured counter.
	Tokens int

	// Context holds the chunks that made it into Text, in rank order.
	Context []ScoredChunk

	// Truncated is true when the top chunk was cut to fit the budget.
	Truncated bool
}
