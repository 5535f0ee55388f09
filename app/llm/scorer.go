package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rssradar/app/database"
)

// Relevance labels the scorer recognizes in model output
const (
	LabelYes       = "Yes"
	LabelNo        = "No"
	LabelPartially = "Partially"
)

// maxContentLength bounds how much item content goes into a prompt.
// Title and description are always included in full; only the content
// tail is cut. 4000 bytes keeps the prompt inside a 4k-token context
// with room for instructions and the completion.
const maxContentLength = 4000

const promptTemplate = `### Task: Analyze the following RSS content for relevance to the query: "%s"

### Content:
Title: %s
Description: %s
Content: %s

### Instructions:
1. Determine if this content is relevant to the query: "%s"
2. Provide a relevance score from 0-100 (0 = not relevant, 100 = highly relevant)
3. Explain why it is or isn't relevant
4. Extract any key information related to the query
5. Provide a brief summary

### Response Format:
Relevance Score: [0-100]
Relevance: [Yes/No/Partially]
Explanation: [Brief explanation]
Key Information: [Extracted key points]
Summary: [Brief summary]

### Analysis:`

// Scorer scores one item against one query through the completion
// capability and parses the structured verdict.
type Scorer struct {
	client      CompletionClient
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func NewScorer(client CompletionClient, maxTokens int, temperature float64, timeout time.Duration) *Scorer {
	return &Scorer{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}
}

// Score runs one completion for a stored item and returns the parsed
// result. Inference errors are returned as-is; malformed model output
// is not an error and degrades to a zero-score result with the raw
// output preserved.
func (s *Scorer) Score(ctx context.Context, item database.Item, query string) (database.Result, error) {
	prompt := s.buildPrompt(item, query)

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.client.Complete(timeoutCtx, prompt, s.maxTokens, s.temperature)
	if err != nil {
		return database.Result{}, fmt.Errorf("failed to score item %q: %w", item.GUID, err)
	}

	result := parseCompletion(completion)
	result.ItemGUID = item.GUID
	result.Query = query
	result.ProcessedAt = time.Now().UTC()

	return result, nil
}

func (s *Scorer) buildPrompt(item database.Item, query string) string {
	return fmt.Sprintf(promptTemplate,
		query, item.Title, item.Description, truncateContent(item.Content), query)
}

// truncateContent cuts the content tail at maxContentLength, keeping
// the cut on a rune boundary.
func truncateContent(content string) string {
	if len(content) <= maxContentLength {
		return content
	}

	cut := maxContentLength
	for cut > 0 && !isRuneStart(content[cut]) {
		cut--
	}

	return content[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// parseCompletion extracts the labeled fields from model output.
// Parsing is tolerant: any field that fails to parse takes its
// default, and the raw output is always retained verbatim.
func parseCompletion(completion string) database.Result {
	result := database.Result{
		RelevanceScore: 0,
		RelevanceLabel: LabelNo,
		RawModelOutput: completion,
	}

	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "Relevance Score:"):
			result.RelevanceScore = parseScore(strings.TrimPrefix(line, "Relevance Score:"))
		case strings.HasPrefix(line, "Relevance:"):
			result.RelevanceLabel = parseLabel(strings.TrimPrefix(line, "Relevance:"))
		case strings.HasPrefix(line, "Explanation:"):
			result.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		case strings.HasPrefix(line, "Key Information:"):
			result.KeyInformation = strings.TrimSpace(strings.TrimPrefix(line, "Key Information:"))
		case strings.HasPrefix(line, "Summary:"):
			result.Summary = strings.TrimSpace(strings.TrimPrefix(line, "Summary:"))
		}
	}

	return result
}

// parseScore reads the first integer in the text and clamps it to
// [0, 100]. Non-numeric output counts as 0.
func parseScore(text string) int {
	text = strings.TrimSpace(text)

	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if c == '-' && start < 0 {
			start = i
			continue
		}
		if start >= 0 {
			text = text[start:i]
			start = 0
			break
		}
	}
	if start < 0 {
		return 0
	}
	if start > 0 {
		text = text[start:]
	}

	score, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func parseLabel(text string) string {
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "[]"))

	switch {
	case strings.EqualFold(text, LabelYes):
		return LabelYes
	case strings.EqualFold(text, LabelPartially):
		return LabelPartially
	case strings.EqualFold(text, LabelNo):
		return LabelNo
	default:
		return LabelNo
	}
}
