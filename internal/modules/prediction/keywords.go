package prediction

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

var stopWords = map[string]struct{}{
	"will": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"that": {}, "this": {}, "the": {}, "and": {}, "for": {}, "with": {},
}

// ExtractKeywords lowercases text, strips everything but letters, digits and
// whitespace, and keeps distinct tokens longer than three characters that
// are not stop words. Order of first appearance is preserved.
func ExtractKeywords(text string) []string {
	tokens := tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func tokenize(text string) []string {
	return strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(text), ""))
}

// entityClass groups distinguishing terms. Countries and people must agree
// across a matched pair; the other classes only feed the shared-term check.
type entityClass string

const (
	classCountry entityClass = "country"
	classPerson  entityClass = "person"
	classYear    entityClass = "year"
	classMonth   entityClass = "month"
	classCrypto  entityClass = "crypto"
)

type entity struct {
	class entityClass
	name  string
}

func (e entity) String() string { return string(e.class) + ":" + e.name }

// distinguishingTerms maps a token to its canonical entity. Aliases of the
// same country share a name.
var distinguishingTerms = map[string]entity{
	"us":          {classCountry, "us"},
	"usa":         {classCountry, "us"},
	"america":     {classCountry, "us"},
	"american":    {classCountry, "us"},
	"uk":          {classCountry, "uk"},
	"britain":     {classCountry, "uk"},
	"british":     {classCountry, "uk"},
	"england":     {classCountry, "uk"},
	"germany":     {classCountry, "germany"},
	"german":      {classCountry, "germany"},
	"france":      {classCountry, "france"},
	"french":      {classCountry, "france"},
	"netherlands": {classCountry, "netherlands"},
	"dutch":       {classCountry, "netherlands"},
	"china":       {classCountry, "china"},
	"chinese":     {classCountry, "china"},
	"russia":      {classCountry, "russia"},
	"russian":     {classCountry, "russia"},
	"ukraine":     {classCountry, "ukraine"},
	"ukrainian":   {classCountry, "ukraine"},

	"bitcoin":  {classCrypto, "bitcoin"},
	"ethereum": {classCrypto, "ethereum"},
	"crypto":   {classCrypto, "crypto"},

	"trump":    {classPerson, "trump"},
	"biden":    {classPerson, "biden"},
	"harris":   {classPerson, "harris"},
	"desantis": {classPerson, "desantis"},
	"newsom":   {classPerson, "newsom"},

	"2024": {classYear, "2024"},
	"2025": {classYear, "2025"},
	"2026": {classYear, "2026"},
	"2027": {classYear, "2027"},
	"2028": {classYear, "2028"},

	"january":   {classMonth, "january"},
	"february":  {classMonth, "february"},
	"march":     {classMonth, "march"},
	"april":     {classMonth, "april"},
	"june":      {classMonth, "june"},
	"july":      {classMonth, "july"},
	"august":    {classMonth, "august"},
	"september": {classMonth, "september"},
	"october":   {classMonth, "october"},
	"november":  {classMonth, "november"},
	"december":  {classMonth, "december"},
}

// ExtractEntities returns the canonical distinguishing terms in text.
// Unlike keywords, short country codes such as "US" and "UK" count, as does
// the phrase "united states". "May" is skipped because it is usually a verb.
func ExtractEntities(text string) []string {
	tokens := tokenize(text)
	set := make(map[string]struct{})
	var out []string
	add := func(e entity) {
		key := e.String()
		if _, ok := set[key]; ok {
			return
		}
		set[key] = struct{}{}
		out = append(out, key)
	}

	for i, tok := range tokens {
		if e, ok := distinguishingTerms[tok]; ok {
			add(e)
		}
		if tok == "united" && i+1 < len(tokens) && tokens[i+1] == "states" {
			add(entity{classCountry, "us"})
		}
	}
	return out
}

// entitiesOf collects a market's entities by class, combining the stored
// entities with any distinguishing terms among its keywords.
func entitiesOf(m NormalizedMarket) map[entityClass]map[string]struct{} {
	out := make(map[entityClass]map[string]struct{})
	add := func(class entityClass, name string) {
		if out[class] == nil {
			out[class] = make(map[string]struct{})
		}
		out[class][name] = struct{}{}
	}

	for _, kw := range m.Keywords {
		if e, ok := distinguishingTerms[kw]; ok {
			add(e.class, e.name)
		}
	}
	for _, raw := range m.Entities {
		class, name, ok := strings.Cut(raw, ":")
		if ok {
			add(entityClass(class), name)
		}
	}
	return out
}
