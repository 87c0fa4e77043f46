package question

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NoQuestionFound is the placeholder text used when AI output carries no
// recognizable question marker. It is a sentinel value, not an error: callers
// that care about degraded parses compare against it explicitly.
const NoQuestionFound = "No question found"

// Question is a multiple-choice question. CorrectAnswers holds zero-based
// option letters ('a' for option 0), kept sorted and unique. The JSON shape is
// the on-disk bank record format.
type Question struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	Source         string   `json:"source"`
}

var (
	questionRe = regexp.MustCompile(`(?s)Question:\s*(.+)`)
	optionRe   = regexp.MustCompile(`\d\)\s*(.+)`)
	correctRe  = regexp.MustCompile(`(Correct answers|Answer keys|At the end):?\s*([\d\s]+)`)
	trailerRe  = regexp.MustCompile(`(?s)\nCorrect answers:.*`)
)

// Parse extracts a Question from raw AI output. It never fails: a missing
// question marker yields the NoQuestionFound sentinel, a missing answer
// declaration yields an empty answer set, and out-of-range answer numbers are
// dropped silently. Malformed model output must not break the pipeline.
func Parse(raw, sourceRef string) Question {
	text := NoQuestionFound
	if m := questionRe.FindStringSubmatch(raw); m != nil {
		text = strings.TrimSpace(m[1])
	}

	options := []string{}
	for _, m := range optionRe.FindAllStringSubmatch(raw, -1) {
		options = append(options, strings.TrimSpace(m[1]))
	}

	var answers []string
	if m := correctRe.FindStringSubmatch(raw); m != nil {
		for _, num := range strings.Fields(m[2]) {
			n, err := strconv.Atoi(num)
			if err != nil {
				continue
			}
			idx := n - 1 // declarations are 1-based
			if idx >= 0 && idx < len(options) && idx < 26 {
				answers = append(answers, string(rune('a'+idx)))
			}
		}
	}

	return Question{
		Text:           text,
		Options:        options,
		CorrectAnswers: NormalizeAnswers(answers),
		Source:         sourceRef,
	}
}

// CleanText prepares raw AI output for display: everything after the first
// "Question:" marker, with the trailing "Correct answers:" section removed so
// the answer key never leaks to the screen. Text without the marker is left
// unchanged apart from the trailer strip and trim.
func CleanText(raw string) string {
	if m := questionRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return strings.TrimSpace(trailerRe.ReplaceAllString(raw, ""))
}

// NormalizeAnswers sorts and deduplicates an answer letter set. Applied at
// every construction and deserialization boundary so answer sets compare by
// value.
func NormalizeAnswers(answers []string) []string {
	seen := make(map[string]struct{}, len(answers))
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// MatchesAnswers reports whether the selected letters equal the question's
// correct-answer set, ignoring order and duplicates.
func (q Question) MatchesAnswers(selected []string) bool {
	normalized := NormalizeAnswers(selected)
	if len(normalized) != len(q.CorrectAnswers) {
		return false
	}
	for i, a := range normalized {
		if a != q.CorrectAnswers[i] {
			return false
		}
	}
	return true
}

// OptionLetter maps an option index to its answer letter ('a' for index 0).
func OptionLetter(idx int) string {
	return string(rune('a' + idx))
}
