// Package compose generates the final outreach email for one job posting
// and its matched portfolio links.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Sender describes who the email is written as. Comes from configuration;
// the composer itself has no opinion about the sender.
type Sender struct {
	Name    string
	Company string
	// Pitch is a one-or-two sentence description of what the sender's
	// company does, woven into the email body.
	Pitch string
}

// Service composes outreach emails.
type Service struct {
	llm         Completer
	sender      Sender
	temperature float32
}

// New creates a composition service. Composition runs at a higher
// temperature than extraction: the email should read naturally, not
// mechanically.
func New(llm Completer, sender Sender, temperature float32) *Service {
	return &Service{llm: llm, sender: sender, temperature: temperature}
}

// Compose writes the email for one posting. The returned text is the raw
// email, no structured wrapping. An empty or whitespace-only model response
// is an error wrapping domain.ErrComposition.
func (s *Service) Compose(ctx context.Context, job domain.JobPosting, links []string) (string, error) {
	result, err := s.llm.Complete(ctx, s.buildPrompt(job, links), s.temperature)
	if err != nil {
		return "", fmt.Errorf("%w: completion: %w", domain.ErrComposition, err)
	}

	email := strings.TrimSpace(result.Text)
	if email == "" {
		return "", fmt.Errorf("%w: model returned empty email for role %q", domain.ErrComposition, job.Role)
	}

	return email, nil
}

func (s *Service) buildPrompt(job domain.JobPosting, links []string) string {
	var b strings.Builder

	b.WriteString("### JOB POSTING:\n")
	fmt.Fprintf(&b, "Role: %s\n", job.Role)
	if job.Experience != "" {
		fmt.Fprintf(&b, "Experience: %s\n", job.Experience)
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(job.Skills, ", "))
	}
	if job.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", job.Description)
	}

	b.WriteString("\n### INSTRUCTION:\n")
	fmt.Fprintf(&b,
		"You are %s, a business development executive at %s. %s\n",
		s.sender.Name, s.sender.Company, s.sender.Pitch,
	)
	b.WriteString("Write a concise, professional cold outreach email to the company " +
		"behind the job posting above, describing how " + s.sender.Company +
		" can fulfill their needs for this role.\n")

	// No links, no links section: the model must never emit placeholders.
	if len(links) > 0 {
		b.WriteString("Add the most relevant items from the following portfolio " +
			"to showcase relevant past work: " + strings.Join(links, ", ") + "\n")
	} else {
		b.WriteString("Do not mention or promise any portfolio, work samples, or links.\n")
	}

	b.WriteString("Do not provide a preamble; reply with the email text only.\n\n### EMAIL (NO PREAMBLE):")

	return b.String()
}
