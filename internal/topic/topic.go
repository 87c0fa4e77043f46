package topic

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/quizdesk/aiquiz/internal/question"
)

var (
	// ErrEmptyBank means a withdrawal was attempted on an empty question
	// bank. The lifecycle engine checks availability first, so hitting this
	// indicates a caller logic error.
	ErrEmptyBank = errors.New("question bank is empty")

	// ErrNoSource means a topic has no sources to ground a prompt with.
	ErrNoSource = errors.New("topic has no sources")
)

// Topic is a named subject area owning its source list and question bank.
// The bank is FIFO: reuse withdraws from the front, new questions append to
// the back. Every bank mutation is persisted immediately so a crash cannot
// resurrect already-consumed questions.
//
// One batch load mutates a topic at a time; the engine holds the topic lock
// for the whole batch.
type Topic struct {
	mu sync.Mutex

	Name    string
	Sources []Source

	bank  []question.Question
	store *Store
}

// New loads a topic's sources and question bank eagerly from the store.
// Missing or corrupt files degrade to empty collections.
func New(name string, store *Store) *Topic {
	return &Topic{
		Name:    name,
		Sources: store.LoadSources(name),
		bank:    store.LoadQuestions(name),
		store:   store,
	}
}

// Lock serializes batch loads against this topic. The lifecycle engine holds
// it from the first slot until the batch completes.
func (t *Topic) Lock() { t.mu.Lock() }

// Unlock releases the batch lock.
func (t *Topic) Unlock() { t.mu.Unlock() }

// SelectSource picks a source for prompt grounding. With usePriorities the
// pick is weighted by clamped importance; an all-zero weight sum falls back
// to a uniform pick rather than an undefined distribution. Selection uses the
// process-wide PRNG and is deliberately nondeterministic.
func (t *Topic) SelectSource(usePriorities bool) (Source, error) {
	if len(t.Sources) == 0 {
		return Source{}, ErrNoSource
	}

	if !usePriorities {
		return t.Sources[rand.Intn(len(t.Sources))], nil
	}

	total := 0
	for _, s := range t.Sources {
		total += ClampImportance(s.Importance)
	}
	if total == 0 {
		return t.Sources[rand.Intn(len(t.Sources))], nil
	}

	roll := rand.Intn(total)
	for _, s := range t.Sources {
		roll -= ClampImportance(s.Importance)
		if roll < 0 {
			return s, nil
		}
	}
	return t.Sources[len(t.Sources)-1], nil
}

// BankSize returns the number of stored questions available for reuse.
func (t *Topic) BankSize() int { return len(t.bank) }

// BankQuestions returns a copy of the current bank contents in order.
func (t *Topic) BankQuestions() []question.Question {
	out := make([]question.Question, len(t.bank))
	copy(out, t.bank)
	return out
}

// WithdrawOldest removes and returns the oldest banked question. The caller
// must persist afterwards via SaveQuestions.
func (t *Topic) WithdrawOldest() (question.Question, error) {
	if len(t.bank) == 0 {
		return question.Question{}, ErrEmptyBank
	}
	q := t.bank[0]
	t.bank = t.bank[1:]
	return q, nil
}

// AppendQuestion adds a question to the end of the bank.
func (t *Topic) AppendQuestion(q question.Question) {
	t.bank = append(t.bank, q)
}

// AppendQuestions adds questions to the end of the bank in order.
func (t *Topic) AppendQuestions(qs []question.Question) {
	t.bank = append(t.bank, qs...)
}

// SaveQuestions persists the full bank, overwriting the previous file. Write
// failures surface: silently losing a withdrawal or a fresh generation is
// worse than aborting the batch.
func (t *Topic) SaveQuestions() error {
	if err := t.store.SaveQuestions(t.Name, t.bank); err != nil {
		return fmt.Errorf("persist question bank for %q: %w", t.Name, err)
	}
	return nil
}

// ReloadSources re-reads the source list from disk, picking up external edits.
func (t *Topic) ReloadSources() {
	t.Sources = t.store.LoadSources(t.Name)
}

// AddSource appends a source (importance clamped) and persists the list.
func (t *Topic) AddSource(s Source) error {
	s.Importance = ClampImportance(s.Importance)
	t.Sources = append(t.Sources, s)
	return t.saveSources()
}

// UpdateSource replaces the source at idx and persists the list.
func (t *Topic) UpdateSource(idx int, s Source) error {
	if idx < 0 || idx >= len(t.Sources) {
		return fmt.Errorf("source index %d out of range", idx)
	}
	s.Importance = ClampImportance(s.Importance)
	t.Sources[idx] = s
	return t.saveSources()
}

// DeleteSource removes the source at idx, preserving the relative order of
// the remainder, and persists the list.
func (t *Topic) DeleteSource(idx int) error {
	if idx < 0 || idx >= len(t.Sources) {
		return fmt.Errorf("source index %d out of range", idx)
	}
	t.Sources = append(t.Sources[:idx], t.Sources[idx+1:]...)
	return t.saveSources()
}

func (t *Topic) saveSources() error {
	if err := t.store.SaveSources(t.Name, t.Sources); err != nil {
		return fmt.Errorf("persist sources for %q: %w", t.Name, err)
	}
	return nil
}
