package domain

import "strings"

// JobPosting is one structured job record extracted from a page.
// Immutable after extraction; not persisted.
type JobPosting struct {
	Role        string
	Experience  string
	Skills      []string
	Description string
}

// IsEmpty reports whether the posting carries neither a role nor skills.
// Such postings are rejected by the extractor: a record the model could not
// anchor to anything in the input is treated as fabricated.
func (p JobPosting) IsEmpty() bool {
	if strings.TrimSpace(p.Role) != "" {
		return false
	}
	for _, s := range p.Skills {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Outcome is the terminal per-posting result of a pipeline run.
// Either Email or Err is set, never both.
type Outcome struct {
	Job   JobPosting
	Links []string
	Email string
	Err   error
}
