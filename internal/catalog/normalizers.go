package catalog

import (
	"strings"
	"unicode"
)

// CollapseSpace trims s and folds internal whitespace runs into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lower collapses whitespace and lowercases, for emails and usernames.
func Lower(s string) string {
	return strings.ToLower(CollapseSpace(s))
}

// Upper collapses whitespace and uppercases, for codes.
func Upper(s string) string {
	return strings.ToUpper(CollapseSpace(s))
}

// TitleName capitalizes each word of a person or place name.
func TitleName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var genders = map[string]string{
	"m":      "male",
	"male":   "male",
	"man":    "male",
	"f":      "female",
	"female": "female",
	"woman":  "female",
	"o":      "other",
	"other":  "other",
}

// NormalizeGender maps common spellings to male, female or other.
// Unrecognized input is returned lowercased so validation can reject it.
func NormalizeGender(s string) string {
	s = Lower(s)
	if g, ok := genders[s]; ok {
		return g
	}
	return s
}

var difficulties = map[string]string{
	"e":      "easy",
	"easy":   "easy",
	"1":      "easy",
	"m":      "medium",
	"medium": "medium",
	"med":    "medium",
	"2":      "medium",
	"h":      "hard",
	"hard":   "hard",
	"3":      "hard",
}

// NormalizeDifficulty maps level names and 1-3 scores to easy, medium or hard.
func NormalizeDifficulty(s string) string {
	s = Lower(s)
	if d, ok := difficulties[s]; ok {
		return d
	}
	return s
}

var questionTypes = map[string]string{
	"mcq":             "mcq",
	"multiple choice": "mcq",
	"multiple_choice": "mcq",
	"true/false":      "true_false",
	"true false":      "true_false",
	"true_false":      "true_false",
	"tf":              "true_false",
	"short":           "short_answer",
	"short answer":    "short_answer",
	"short_answer":    "short_answer",
	"long":            "essay",
	"essay":           "essay",
}

// NormalizeQuestionType maps the labels used in question banks to the
// stored type names.
func NormalizeQuestionType(s string) string {
	s = Lower(s)
	if t, ok := questionTypes[s]; ok {
		return t
	}
	return s
}

// NormalizeCNIC formats a 13 digit national identity number as
// 00000-0000000-0. Other input is returned trimmed.
func NormalizeCNIC(s string) string {
	s = CleanCell(s)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if len(digits) != 13 {
		return s
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return s
		}
	}
	return digits[:5] + "-" + digits[5:12] + "-" + digits[12:]
}

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, CleanCell(s))
}
