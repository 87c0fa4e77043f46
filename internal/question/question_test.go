package question

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormed(t *testing.T) {
	raw := "Question: What is 2+2?\nOptions:\n1) 3\n2) 4\n3) 5\nCorrect answers: 2"

	q := Parse(raw, "https://example.com/math")

	assert.Equal(t, "What is 2+2?\nOptions:\n1) 3\n2) 4\n3) 5\nCorrect answers: 2", q.Text)
	assert.Equal(t, []string{"3", "4", "5"}, q.Options)
	assert.Equal(t, []string{"b"}, q.CorrectAnswers)
	assert.Equal(t, "https://example.com/math", q.Source)
}

func TestParseMultipleCorrectAnswers(t *testing.T) {
	raw := "Question: Pick primes.\nOptions:\n1) 2\n2) 3\n3) 4\n4) 5\nCorrect answers: 1 2 4"

	q := Parse(raw, "")

	assert.Equal(t, []string{"a", "b", "d"}, q.CorrectAnswers)
}

func TestParseMissingQuestionMarker(t *testing.T) {
	q := Parse("some rambling output with no structure", "")

	assert.Equal(t, NoQuestionFound, q.Text)
	assert.Empty(t, q.Options)
	assert.Empty(t, q.CorrectAnswers)
}

func TestParseOutOfRangeAnswerDropped(t *testing.T) {
	raw := "Question: Pick one.\nOptions:\n1) a\n2) b\n3) c\n4) d\nCorrect answers: 2 5"

	q := Parse(raw, "")

	assert.Equal(t, []string{"b"}, q.CorrectAnswers, "out-of-range 5 must be dropped silently")
}

func TestParseDuplicateAnswersCollapse(t *testing.T) {
	raw := "Question: Pick.\nOptions:\n1) x\n2) y\nCorrect answers: 1 1 2"

	q := Parse(raw, "")

	assert.Equal(t, []string{"a", "b"}, q.CorrectAnswers)
}

func TestParseNoAnswerDeclaration(t *testing.T) {
	raw := "Question: Pick.\nOptions:\n1) x\n2) y"

	q := Parse(raw, "")

	assert.Equal(t, []string{"x", "y"}, q.Options)
	assert.Empty(t, q.CorrectAnswers)
}

func TestParseAlternateAnswerMarkers(t *testing.T) {
	for _, marker := range []string{"Correct answers", "Answer keys", "At the end"} {
		raw := "Question: Pick.\nOptions:\n1) x\n2) y\n" + marker + ": 1"
		q := Parse(raw, "")
		assert.Equal(t, []string{"a"}, q.CorrectAnswers, "marker %q", marker)
	}
}

func TestCleanTextStripsAnswerKey(t *testing.T) {
	raw := "Question: Capital of France?\nOptions:\n1) Paris\n2) Lyon\nCorrect answers: 1"

	assert.Equal(t, "Capital of France?\nOptions:\n1) Paris\n2) Lyon", CleanText(raw))
}

func TestCleanTextWithoutMarker(t *testing.T) {
	assert.Equal(t, "just some text", CleanText("  just some text \n"))
}

func TestCleanTextStripsLeadingPreamble(t *testing.T) {
	raw := "Here is your question!\nQuestion: Why?\nOptions:\n1) because\nCorrect answers: 1"

	assert.Equal(t, "Why?\nOptions:\n1) because", CleanText(raw))
}

func TestRecordRoundTrip(t *testing.T) {
	q := Question{
		Text:           "Pick letters.",
		Options:        []string{"alpha", "beta", "gamma"},
		CorrectAnswers: NormalizeAnswers([]string{"c", "a"}),
		Source:         "https://example.com",
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var got Question
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, q, got)
}

func TestMatchesAnswers(t *testing.T) {
	q := Question{CorrectAnswers: NormalizeAnswers([]string{"a", "c"})}

	assert.True(t, q.MatchesAnswers([]string{"c", "a"}))
	assert.True(t, q.MatchesAnswers([]string{"a", "a", "c"}))
	assert.False(t, q.MatchesAnswers([]string{"a"}))
	assert.False(t, q.MatchesAnswers([]string{"a", "b"}))
	assert.False(t, q.MatchesAnswers(nil))

	empty := Question{CorrectAnswers: nil}
	assert.True(t, empty.MatchesAnswers(nil), "empty selection matches empty answer set")
}
