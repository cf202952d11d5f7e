// Package dictfile reads dream dictionary text files.
//
// A file holds comma separated entries such as
//
//	(가)
//	가게[5][33][39]★★★★, 가락지[0끝수][9], 가로등[19]★
//	눈{날씨}(뜻: 하늘에서 내리는 눈)[37]★★★
//
// Each ★ adds one point of importance. [N] attaches number N and [N끝수]
// attaches every number ending in N. {카테고리} and (뜻: ...) are optional.
// Lines of the form (가) are section headers and lines starting with # are
// comments.
package dictfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/model"
)

const (
	starRune      = '★'
	endDigitMark  = "끝수"
	meaningPrefix = "뜻:"
)

var (
	sectionRegex  = regexp.MustCompile(`^\(([^()]+)\)$`)
	numberRegex   = regexp.MustCompile(`\[([^\]]*)\]`)
	categoryRegex = regexp.MustCompile(`\{([^}]*)\}`)
	meaningRegex  = regexp.MustCompile(`\(\s*뜻\s*:\s*([^)]*)\)`)
)

// Result is the outcome of parsing one or more dictionary sources.
type Result struct {
	Entries  []model.DictionaryEntry
	Rejected []*errors.DictionaryLineError
	Sections []string
}

// Parse reads dictionary text from r. Malformed entries are collected in
// Result.Rejected; only read failures are returned as errors.
func Parse(r io.Reader, source string) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := sectionRegex.FindStringSubmatch(line); m != nil && !strings.HasPrefix(strings.TrimSpace(m[1]), meaningPrefix) {
			res.Sections = append(res.Sections, strings.TrimSpace(m[1]))
			continue
		}

		for _, token := range splitEntries(line) {
			entry, err := ParseEntry(token)
			if err != nil {
				res.Rejected = append(res.Rejected, errors.NewDictionaryLineError(source, lineNo, token, err.Error()))
				continue
			}
			res.Entries = append(res.Entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return res, nil
}

// ParseEntry parses one entry token such as "가게[5][33]★★".
func ParseEntry(token string) (model.DictionaryEntry, error) {
	var entry model.DictionaryEntry
	rest := strings.TrimSpace(token)

	entry.Importance = strings.Count(rest, string(starRune))
	if entry.Importance > model.MaxImportance {
		entry.Importance = model.MaxImportance
	}
	rest = strings.ReplaceAll(rest, string(starRune), "")

	if m := meaningRegex.FindStringSubmatch(rest); m != nil {
		entry.Meaning = strings.TrimSpace(m[1])
		rest = meaningRegex.ReplaceAllString(rest, "")
	}

	if m := categoryRegex.FindStringSubmatch(rest); m != nil {
		entry.Category = model.Category(strings.TrimSpace(m[1]))
		if !entry.Category.Valid() {
			return entry, fmt.Errorf("unknown category %q", m[1])
		}
		rest = categoryRegex.ReplaceAllString(rest, "")
	}

	for _, m := range numberRegex.FindAllStringSubmatch(rest, -1) {
		refs, err := parseNumber(strings.TrimSpace(m[1]))
		if err != nil {
			return entry, err
		}
		entry.Numbers = appendNumbers(entry.Numbers, refs)
	}
	rest = numberRegex.ReplaceAllString(rest, "")

	entry.Word = strings.Join(strings.Fields(rest), " ")
	if entry.Word == "" {
		return entry, fmt.Errorf("missing word")
	}
	if len(entry.Numbers) == 0 {
		return entry, fmt.Errorf("no numbers for %q", entry.Word)
	}
	return entry.EnsureID(), nil
}

func parseNumber(s string) ([]model.NumberRef, error) {
	if digits, ok := strings.CutSuffix(s, endDigitMark); ok {
		d, err := strconv.Atoi(strings.TrimSpace(digits))
		if err != nil || d < 0 || d > 9 {
			return nil, fmt.Errorf("invalid end digit %q", s)
		}
		return model.ExpandEndDigit(d), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if n < model.MinNumber || n > model.MaxNumber {
		return nil, fmt.Errorf("number %d outside %d-%d", n, model.MinNumber, model.MaxNumber)
	}
	return []model.NumberRef{{Number: n}}, nil
}

// appendNumbers adds refs, keeping the first reference to each number.
func appendNumbers(numbers, refs []model.NumberRef) []model.NumberRef {
	for _, ref := range refs {
		dup := false
		for _, existing := range numbers {
			if existing.Number == ref.Number {
				dup = true
				break
			}
		}
		if !dup {
			numbers = append(numbers, ref)
		}
	}
	return numbers
}

// splitEntries splits a line on commas that are not inside brackets,
// braces or parentheses.
func splitEntries(line string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range line {
		switch r {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			if depth > 0 {
				depth--
			}
		case ',', '，':
			if depth == 0 {
				parts = append(parts, line[start:i])
				start = i + utf8.RuneLen(r)
			}
		}
	}
	parts = append(parts, line[start:])

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
