package util

import "strings"

// Words that keep their casing when a phrase is re-capitalised.
var capwordsExceptions = map[string]bool{
	"via": true,
	"CX":  true,
}

// Capwords capitalises every space-separated word in a phrase, leaving
// connective words like "via" alone.
func Capwords(phrase string) string {
	words := strings.Split(phrase, " ")
	for i, word := range words {
		if capwordsExceptions[word] || word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// TrimString cuts a string down to at most length characters. The limit is
// in characters, not bytes, so a multi-byte character is never split.
func TrimString(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length])
}

// ContainsString reports whether str appears in s.
func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// RemoveDuplicateStrings drops repeated, empty and ignored entries, keeping
// first-occurrence order.
func RemoveDuplicateStrings(items []string, ignoreList []string) []string {
	present := make(map[string]bool)
	for _, ignored := range ignoreList {
		present[ignored] = true
	}

	var list []string
	for _, item := range items {
		if !present[item] && item != "" {
			present[item] = true
			list = append(list, item)
		}
	}
	return list
}
