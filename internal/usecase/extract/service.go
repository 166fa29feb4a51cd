// Package extract turns normalized page text into structured job postings
// via a single LLM completion.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/logger"

	"go.uber.org/zap"
)

const extractionPrompt = `### SCRAPED TEXT FROM A CAREERS PAGE:
%s

### INSTRUCTION:
The text above was scraped from the careers page of a company website.
Extract every job posting it contains and return them as a JSON array of
objects with exactly these keys: "role", "experience", "skills",
"description". "skills" is an array of strings. Use only skills that appear
in the text; never invent skills that are not mentioned. If a field is not
present in the text, use an empty string (or an empty array for "skills").
If the page contains no job postings, return an empty array.
Only return the valid JSON array, with no preamble and no commentary.

### VALID JSON (NO PREAMBLE):`

// maxPromptChars caps how much page text goes into one completion request.
const maxPromptChars = 24000

// Service extracts job postings from normalized page text.
type Service struct {
	llm         Completer
	temperature float32
}

// New creates an extraction service. Extraction runs at a low temperature
// so the structured output stays stable.
func New(llm Completer, temperature float32) *Service {
	return &Service{llm: llm, temperature: temperature}
}

// Extract sends text to the model and parses the structured response.
// A page without postings yields an empty slice and no error; an
// unparsable response yields an error wrapping domain.ErrExtraction.
// One request per call, no retries.
func (s *Service) Extract(ctx context.Context, text string) ([]domain.JobPosting, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	result, err := s.llm.Complete(ctx, fmt.Sprintf(extractionPrompt, text), s.temperature)
	if err != nil {
		return nil, fmt.Errorf("%w: completion: %w", domain.ErrExtraction, err)
	}

	postings, err := parsePostings(result.Text)
	if err != nil {
		logger.FromContext(ctx).Warn("Unparsable extraction response",
			zap.String("response", logger.TruncateForLog(result.Text, 200)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	return postings, nil
}

// rawPosting is the JSON shape the model is asked to emit. Field types are
// deliberately loose: the model is not trusted to honor the schema exactly.
type rawPosting struct {
	Role        string     `json:"role"`
	Experience  string     `json:"experience"`
	Skills      stringList `json:"skills"`
	Description string     `json:"description"`
}

// stringList tolerates a JSON array of strings or a single string value.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*l = []string{single}
		}
		return nil
	}
	return fmt.Errorf("skills is neither a string array nor a string")
}

// parsePostings locates the JSON payload in the raw model response and
// validates it into domain postings. A single top-level object is accepted
// as a one-element list. Postings with no role and no skills are dropped.
func parsePostings(raw string) ([]domain.JobPosting, error) {
	payload, err := locatePayload(stripFences(raw))
	if err != nil {
		return nil, err
	}

	var rawList []rawPosting
	if strings.HasPrefix(payload, "{") {
		var single rawPosting
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return nil, fmt.Errorf("decode posting object: %w", err)
		}
		rawList = []rawPosting{single}
	} else if err := json.Unmarshal([]byte(payload), &rawList); err != nil {
		return nil, fmt.Errorf("decode posting array: %w", err)
	}

	postings := make([]domain.JobPosting, 0, len(rawList))
	for _, rp := range rawList {
		p := domain.JobPosting{
			Role:        strings.TrimSpace(rp.Role),
			Experience:  strings.TrimSpace(rp.Experience),
			Skills:      cleanSkills(rp.Skills),
			Description: strings.TrimSpace(rp.Description),
		}
		// A record with neither role nor skills has nothing anchoring it to
		// the page text; drop it instead of composing an email from it.
		if p.IsEmpty() {
			continue
		}
		postings = append(postings, p)
	}

	return postings, nil
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
