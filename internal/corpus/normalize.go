package corpus

import (
	"regexp"
	"strings"
)

var (
	measureRe    = regexp.MustCompile(`(?i)^\d+\s*(?:oz|ml|cl|dash|dashes|teaspoons?|tablespoons?|tsp|tbsp|shots?|parts?|pinch|drops|splash|sprigs?|slices?|wedges?)\s+(?:of\s+)?`)
	leadingQtyRe = regexp.MustCompile(`^\d+[/\d\s.]*\s+(?:of\s+)?`)
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	ingredientSplitRe = regexp.MustCompile(`[,;\n]`)
)

// NormalizeToken lowercases and trims an ingredient token. It is a fixed
// point: normalizing an already-normalized token returns it unchanged.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TokenizeIngredients derives the normalized token list from raw ingredient
// text: split on comma, semicolon or newline, strip quantity/measurement
// prefixes and parenthetical notes, lowercase and trim each piece.
func TokenizeIngredients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tokens []string
	for _, part := range ingredientSplitRe.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = measureRe.ReplaceAllString(part, "")
		part = leadingQtyRe.ReplaceAllString(part, "")
		part = parenRe.ReplaceAllString(part, "")
		part = NormalizeToken(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
