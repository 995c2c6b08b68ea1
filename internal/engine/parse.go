package engine

import "strings"

// ParsePriority parses user input to a TaskPriority.
// If input is empty or unrecognized, returns DefaultPriority.
func ParsePriority(input string) TaskPriority {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "low", "l":
		return PriorityLow
	case "medium", "med", "m":
		return PriorityMedium
	case "high", "h":
		return PriorityHigh
	case "critical", "crit", "c":
		return PriorityCritical
	default:
		return DefaultPriority
	}
}

// ParseCategory parses user input to a TaskCategory.
// If input is empty or unrecognized, returns DefaultCategory.
func ParseCategory(input string) TaskCategory {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "work", "career", "job":
		return CategoryWork
	case "health", "fitness":
		return CategoryHealth
	case "personal":
		return CategoryPersonal
	case "learning", "study", "education":
		return CategoryLearning
	case "social":
		return CategorySocial
	case "finance", "money":
		return CategoryFinance
	case "other":
		return CategoryOther
	default:
		return DefaultCategory
	}
}

// parseStrictPriority maps generated output to a priority, rejecting
// anything that is not an exact known value.
func parseStrictPriority(input string) (TaskPriority, bool) {
	p := TaskPriority(strings.TrimSpace(strings.ToLower(input)))
	return p, p.IsValid()
}

// parseStrictCategory maps generated output to a category, rejecting
// anything that is not an exact known value.
func parseStrictCategory(input string) (TaskCategory, bool) {
	c := TaskCategory(strings.TrimSpace(strings.ToLower(input)))
	return c, c.IsValid()
}
