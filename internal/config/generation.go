package config

import "strings"

// DecoratorParser selects how decorator config strings are read.
type DecoratorParser string

const (
	// DecoratorParserGrammar parses the object literal with an explicit grammar.
	DecoratorParserGrammar DecoratorParser = "grammar"
	// DecoratorParserLegacy rewrites the literal into JSON with regular expressions.
	DecoratorParserLegacy DecoratorParser = "legacy"
)

// NormalizeDecoratorParser canonicalizes user input returning empty string if unknown.
func NormalizeDecoratorParser(raw string) DecoratorParser {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(DecoratorParserGrammar):
		return DecoratorParserGrammar
	case string(DecoratorParserLegacy), "regex":
		return DecoratorParserLegacy
	default:
		return ""
	}
}

// InheritedMatch selects how a member's inheritedFrom name is compared to the base type.
type InheritedMatch string

const (
	InheritedMatchPrefix InheritedMatch = "prefix"
	InheritedMatchExact  InheritedMatch = "exact"
)

// NormalizeInheritedMatch canonicalizes user input returning empty string if unknown.
func NormalizeInheritedMatch(raw string) InheritedMatch {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(InheritedMatchPrefix):
		return InheritedMatchPrefix
	case string(InheritedMatchExact):
		return InheritedMatchExact
	default:
		return ""
	}
}
