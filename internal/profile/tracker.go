package profile

import (
	"regexp"
	"strings"

	"barkeep/internal/intent"
)

// Preference detection runs on every message regardless of intent. The two
// template sets capture the trailing clause of liking/loving/preferring
// expressions; the clause is split on comma or "and" like query entities.

var ingredientPrefRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I (?:really )?like(?: to use)? (.+?)(?: in my (?:drinks|cocktails))?[.!]`),
	regexp.MustCompile(`(?i)I (?:really )?love(?: to use)? (.+?)(?: in my (?:drinks|cocktails))?[.!]`),
	regexp.MustCompile(`(?i)My favorite (?:ingredient|ingredients) (?:is|are) (.+?)[.!]`),
	regexp.MustCompile(`(?i)I prefer (?:to use )?(.+?)(?: in my (?:drinks|cocktails))?[.!]`),
	regexp.MustCompile(`(?i)I enjoy (?:using )?(.+?)(?: in my (?:drinks|cocktails))?[.!]`),
}

var cocktailPrefRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I (?:really )?like(?: to drink)? (?:the )?(.+?)(?: cocktail)?[.!]`),
	regexp.MustCompile(`(?i)I (?:really )?love(?: to drink)? (?:the )?(.+?)(?: cocktail)?[.!]`),
	regexp.MustCompile(`(?i)My favorite (?:cocktail|drink) is (?:the )?(.+?)[.!]`),
	regexp.MustCompile(`(?i)I prefer (?:to drink )?(?:the )?(.+?)(?: cocktail)?[.!]`),
	regexp.MustCompile(`(?i)I enjoy (?:drinking )?(?:the )?(.+?)(?: cocktail)?[.!]`),
}

// Detected reports the preferences newly added by one message. Items already
// present in the favorite sets are not reported.
type Detected struct {
	Ingredients []string
	Cocktails   []string
}

// Empty reports whether no new preferences were detected.
func (d Detected) Empty() bool {
	return len(d.Ingredients) == 0 && len(d.Cocktails) == 0
}

// DetectIngredients returns the ingredient candidates expressed in a
// message, normalized, without touching any profile.
func DetectIngredients(message string) []string {
	return detect(message, ingredientPrefRes, true)
}

// DetectCocktails returns the cocktail candidates expressed in a message,
// trimmed with case preserved.
func DetectCocktails(message string) []string {
	return detect(message, cocktailPrefRes, false)
}

var prefListSplitRe = regexp.MustCompile(`,|\sand\s`)

func detect(message string, res []*regexp.Regexp, normalize bool) []string {
	var out []string
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			if normalize {
				out = append(out, intent.SplitList(m[1])...)
				continue
			}
			for _, part := range prefListSplitRe.Split(m[1], -1) {
				part = strings.TrimSpace(part)
				if part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

// Apply scans a message for preference expressions and adds every detected
// candidate to the profile's favorite sets. Detection is idempotent: a
// candidate already in a set is a no-op and not reported as new.
func Apply(p *Profile, message string) Detected {
	var d Detected
	for _, ing := range DetectIngredients(message) {
		if p.AddFavoriteIngredient(ing) {
			d.Ingredients = append(d.Ingredients, ing)
		}
	}
	for _, c := range DetectCocktails(message) {
		if p.AddFavoriteCocktail(c) {
			d.Cocktails = append(d.Cocktails, c)
		}
	}
	return d
}
