package tokenizer

import (
	"regexp"
	"strings"
)

// sentenceTerminatorRegex matches runs of sentence-ending punctuation.
var sentenceTerminatorRegex = regexp.MustCompile(`[.!?。]+`)

// punctuationRegex matches punctuation that separates words inside a sentence.
var punctuationRegex = regexp.MustCompile(`[.,!?;:。、"'“”‘’()\[\]{}<>~…·]+`)

// SplitSentences splits text on sentence terminators and returns the cleaned,
// non-empty sentences in order.
func SplitSentences(text string) []string {
	parts := sentenceTerminatorRegex.Split(text, -1)

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := CleanSentence(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// CleanSentence replaces punctuation with spaces, collapses whitespace and lowercases.
func CleanSentence(s string) string {
	s = punctuationRegex.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Words splits a cleaned sentence into surface words.
func Words(sentence string) []string {
	words := strings.Fields(sentence)
	if words == nil {
		return make([]string, 0)
	}
	return words
}

// Tokenize splits text into surface words across all sentences.
func Tokenize(text string) []string {
	tokens := make([]string, 0)
	for _, s := range SplitSentences(text) {
		tokens = append(tokens, Words(s)...)
	}
	return tokens
}

// Window returns up to size words before and after position i.
func Window(words []string, i, size int) (before, after []string) {
	if i < 0 || i >= len(words) {
		return nil, nil
	}
	start := i - size
	if start < 0 {
		start = 0
	}
	end := i + size + 1
	if end > len(words) {
		end = len(words)
	}
	before = append([]string(nil), words[start:i]...)
	after = append([]string(nil), words[i+1:end]...)
	return before, after
}
