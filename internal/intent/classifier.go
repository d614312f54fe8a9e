// Package intent maps free-text queries to one of five intent categories and
// extracts structured entities (ingredient lists, cocktail names) from them.
// Classification is an ordered rule list evaluated until first match, so it
// is total and deterministic.
package intent

import (
	"regexp"
	"strings"
)

// Category is the classification label for a free-text message.
type Category string

const (
	IngredientQuery Category = "ingredient_query"
	CocktailQuery   Category = "cocktail_query"
	Recommendation  Category = "recommendation"
	Preference      Category = "preference"
	General         Category = "general"
)

type rule struct {
	re       *regexp.Regexp
	category Category
}

// rules are tested in priority order: ingredient-containment phrasings, then
// single-item lookups, then recommendation requests, then preference
// expressions. The first match wins.
var rules = []rule{
	{regexp.MustCompile(`cocktails? (?:with|containing|that (?:has|have)) (.+)`), IngredientQuery},
	{regexp.MustCompile(`(?:list|show|tell me|what are) (?:some|the|all)? ?cocktails? (?:with|containing|that (?:has|have)) (.+)`), IngredientQuery},
	{regexp.MustCompile(`what (?:cocktails|drinks) (?:can i make|have|contain) (?:with|using) (.+)`), IngredientQuery},

	{regexp.MustCompile(`(?:how|tell me how) to make (?:a|an) (.+)`), CocktailQuery},
	{regexp.MustCompile(`(?:what is|what's) (?:a|an) (.+)`), CocktailQuery},
	{regexp.MustCompile(`(?:recipe|ingredients) for (?:a|an) (.+)`), CocktailQuery},

	{regexp.MustCompile(`recommend (?:a|some) cocktails?`), Recommendation},
	{regexp.MustCompile(`(?:suggest|give me) (?:a|some) cocktails?`), Recommendation},
	{regexp.MustCompile(`what cocktail should i (?:make|try|drink)`), Recommendation},
	{regexp.MustCompile(`similar to (.+)`), Recommendation},
	{regexp.MustCompile(`like (?:a|an) (.+)`), Recommendation},

	{regexp.MustCompile(`(?:my|i) (?:really )?(?:like|love|prefer|favorite|enjoy)`), Preference},
	{regexp.MustCompile(`(?:remember|save|store) (?:this|these|my) (?:preference|ingredient|cocktail)`), Preference},
	{regexp.MustCompile(`what are my (?:favorite|preferred) (?:ingredients|cocktails)`), Preference},
}

// Classify returns the intent category of a query. Evaluation is
// case-insensitive; a query matching no rule classifies as General.
func Classify(query string) Category {
	lower := strings.ToLower(query)
	for _, r := range rules {
		if r.re.MatchString(lower) {
			return r.category
		}
	}
	return General
}
