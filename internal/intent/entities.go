package intent

import (
	"regexp"
	"strings"

	"barkeep/internal/corpus"
)

var ingredientClauseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)with ([^?.,!]+)`),
	regexp.MustCompile(`(?i)containing ([^?.,!]+)`),
	regexp.MustCompile(`(?i)that (?:has|have) ([^?.,!]+)`),
	regexp.MustCompile(`(?i)using ([^?.,!]+)`),
}

var cocktailNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how to make (?:a|an) ([^?.,!]+)`),
	regexp.MustCompile(`(?i)(?:what is|what's) (?:a|an) ([^?.,!]+)`),
	regexp.MustCompile(`(?i)recipe for (?:a|an) ([^?.,!]+)`),
	regexp.MustCompile(`(?i)similar to ([^?.,!]+)`),
	regexp.MustCompile(`(?i)like (?:a|an) ([^?.,!]+)`),
}

var listSplitRe = regexp.MustCompile(`,|\sand\s`)

// Ingredients extracts the ingredient list from a query. The trailing clause
// of the first matching template is split on comma or "and" and each piece
// normalized. No match yields an empty set; the caller must treat that as
// insufficient information.
func Ingredients(query string) []string {
	for _, re := range ingredientClauseRes {
		m := re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		return SplitList(m[1])
	}
	return nil
}

// CocktailName extracts a cocktail name from a query, returning the first
// captured name trimmed, or false when no template matches.
func CocktailName(query string) (string, bool) {
	for _, re := range cocktailNameRes {
		m := re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// SplitList splits a captured clause on comma or the word "and" and
// normalizes each piece, dropping empties.
func SplitList(clause string) []string {
	var out []string
	for _, part := range listSplitRe.Split(clause, -1) {
		part = corpus.NormalizeToken(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
