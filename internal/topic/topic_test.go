package topic

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdesk/aiquiz/internal/question"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	store := NewStore(filepath.Join(base, "data"), filepath.Join(base, "sources"), zerolog.Nop())
	require.NoError(t, store.EnsureDirs())
	return store
}

func TestSourceDecodeDefaults(t *testing.T) {
	var s Source
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.Equal(t, "Unnamed Source", s.Name)
	assert.Equal(t, DefaultImportance, s.Importance)
	assert.Empty(t, s.Link)
	assert.Empty(t, s.Comment)
}

func TestSourceDecodeClampsImportance(t *testing.T) {
	var s Source
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","importance":42}`), &s))
	assert.Equal(t, 10, s.Importance)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","importance":-3}`), &s))
	assert.Equal(t, 0, s.Importance)
}

func TestSelectSourceEmpty(t *testing.T) {
	tp := New("Empty", newTestStore(t))

	_, err := tp.SelectSource(false)
	assert.ErrorIs(t, err, ErrNoSource)
	_, err = tp.SelectSource(true)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestSelectSourceWeightedAlwaysPicksOnlyWeight(t *testing.T) {
	tp := New("Weighted", newTestStore(t))
	tp.Sources = []Source{
		{Name: "zero-1"},
		{Name: "zero-2"},
		{Name: "heavy", Importance: 10},
	}

	for i := 0; i < 200; i++ {
		src, err := tp.SelectSource(true)
		require.NoError(t, err)
		assert.Equal(t, "heavy", src.Name)
	}
}

func TestSelectSourceZeroWeightsFallsBackToUniform(t *testing.T) {
	tp := New("Zeros", newTestStore(t))
	tp.Sources = []Source{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}

	seen := map[string]int{}
	for i := 0; i < 600; i++ {
		src, err := tp.SelectSource(true)
		require.NoError(t, err)
		seen[src.Name]++
	}
	// Structural property only: every source remains reachable.
	assert.Len(t, seen, 3)
}

func TestSelectSourceUniformIgnoresWeights(t *testing.T) {
	tp := New("Uniform", newTestStore(t))
	tp.Sources = []Source{
		{Name: "light", Importance: 0},
		{Name: "heavy", Importance: 10},
	}

	seen := map[string]int{}
	for i := 0; i < 600; i++ {
		src, err := tp.SelectSource(false)
		require.NoError(t, err)
		seen[src.Name]++
	}
	assert.Len(t, seen, 2)
}

func TestDeleteSourcePreservesOrder(t *testing.T) {
	store := newTestStore(t)
	tp := New("Edit", store)
	for _, name := range []string{"first", "second", "third", "fourth"} {
		require.NoError(t, tp.AddSource(Source{Name: name, Importance: 5}))
	}

	require.NoError(t, tp.DeleteSource(1))

	names := func(sources []Source) []string {
		var out []string
		for _, s := range sources {
			out = append(out, s.Name)
		}
		return out
	}
	assert.Equal(t, []string{"first", "third", "fourth"}, names(tp.Sources))

	// Deletion must be persisted too.
	assert.Equal(t, []string{"first", "third", "fourth"}, names(store.LoadSources("Edit")))

	assert.Error(t, tp.DeleteSource(7))
}

func TestUpdateSourceClampsAndPersists(t *testing.T) {
	store := newTestStore(t)
	tp := New("Edit", store)
	require.NoError(t, tp.AddSource(Source{Name: "orig", Importance: 3}))

	require.NoError(t, tp.UpdateSource(0, Source{Name: "updated", Importance: 99}))

	reloaded := store.LoadSources("Edit")
	require.Len(t, reloaded, 1)
	assert.Equal(t, "updated", reloaded[0].Name)
	assert.Equal(t, 10, reloaded[0].Importance)
}

func TestWithdrawOldestEmptyBank(t *testing.T) {
	tp := New("Empty", newTestStore(t))

	_, err := tp.WithdrawOldest()
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestBankFIFOAndPersistence(t *testing.T) {
	store := newTestStore(t)
	tp := New("Fifo", store)

	tp.AppendQuestions([]question.Question{
		{Text: "oldest", Options: []string{"x"}, CorrectAnswers: []string{"a"}},
		{Text: "middle", Options: []string{"x"}, CorrectAnswers: []string{"a"}},
		{Text: "newest", Options: []string{"x"}, CorrectAnswers: []string{"a"}},
	})
	require.NoError(t, tp.SaveQuestions())

	q, err := tp.WithdrawOldest()
	require.NoError(t, err)
	assert.Equal(t, "oldest", q.Text)
	require.NoError(t, tp.SaveQuestions())

	// A fresh load must not resurrect the withdrawn question.
	reloaded := New("Fifo", store)
	require.Equal(t, 2, reloaded.BankSize())
	assert.Equal(t, "middle", reloaded.BankQuestions()[0].Text)
	assert.Equal(t, "newest", reloaded.BankQuestions()[1].Text)
}

func TestLoadQuestionsMissingFile(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.LoadQuestions("Nothing"))
}

func TestLoadQuestionsCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.questionsPath("Broken"), []byte("{not json"), 0o644))

	assert.Empty(t, store.LoadQuestions("Broken"))
}

func TestLoadSourcesCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.sourcesPath("Broken"), []byte("[{"), 0o644))

	assert.Empty(t, store.LoadSources("Broken"))
}

func TestLoadQuestionsNormalizesAnswerSets(t *testing.T) {
	store := newTestStore(t)
	raw := `[{"text":"q","options":["x","y"],"correct_answers":["b","a","a"],"source":""}]`
	require.NoError(t, os.WriteFile(store.questionsPath("Norm"), []byte(raw), 0o644))

	qs := store.LoadQuestions("Norm")
	require.Len(t, qs, 1)
	assert.Equal(t, []string{"a", "b"}, qs[0].CorrectAnswers)
}

func TestDiscoverTopics(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSources("history", []Source{{Name: "Book", Importance: 5}}))
	require.NoError(t, store.SaveSources("go", nil))

	topics, err := store.DiscoverTopics()
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Go", topics[0].Name)
	assert.Equal(t, "History", topics[1].Name)
	assert.Len(t, topics[1].Sources, 1)
}

func TestCreateTopic(t *testing.T) {
	store := newTestStore(t)

	tp, err := store.CreateTopic("Biology")
	require.NoError(t, err)
	assert.Equal(t, "Biology", tp.Name)
	assert.Empty(t, tp.Sources)

	_, err = store.CreateTopic("biology")
	assert.Error(t, err, "topic names are unique case-insensitively")

	_, err = store.CreateTopic("  ")
	assert.Error(t, err)
}
