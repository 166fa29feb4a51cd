package domain

import "strings"

// PortfolioEntry is one work sample in the catalog: the skill tags it
// demonstrates and the link that shows it. Loaded once at startup and
// immutable for the process lifetime.
type PortfolioEntry struct {
	Techstack []string
	Link      string
}

// TechstackText renders the entry's skill tags as the text that gets
// embedded into the similarity index.
func (e PortfolioEntry) TechstackText() string {
	return strings.Join(e.Techstack, ", ")
}
