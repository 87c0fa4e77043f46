package quiz

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/quizdesk/aiquiz/internal/question"
	"github.com/quizdesk/aiquiz/internal/topic"
)

// Completer is the single-turn AI call the engine depends on: prompt in, raw
// completion text out. Transport, auth and rate-limit failures all surface as
// one error the engine treats uniformly.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Engine fills quiz batches, deciding per slot whether to reuse a banked
// question or generate a fresh one through the AI client.
type Engine struct {
	ai     Completer
	logger zerolog.Logger
}

func NewEngine(ai Completer, logger zerolog.Logger) *Engine {
	return &Engine{
		ai:     ai,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// LoadBatch produces count questions for the topic. Each slot rolls 1..100
// and reuses the oldest banked question iff the roll is at or under
// reusePercent and the bank still has entries; otherwise it generates. A 100%
// reuse request with an exhausted bank falls through to generation.
//
// Reused questions are withdrawn from the bank and the shrunk bank is
// persisted before the slot completes, so a crash mid-batch cannot resurrect
// consumed questions. Generated questions are appended to both the result and
// the bank, again persisted immediately. They are not re-appended on reuse;
// the session's post-quiz save policy decides what returns to the bank.
//
// Slots run sequentially. The first AI-call or persistence failure aborts the
// whole batch with no partial results; a topic with zero sources aborts as
// soon as a slot needs generation, since no further sources will appear
// mid-batch.
func (e *Engine) LoadBatch(ctx context.Context, t *topic.Topic, count, reusePercent int, usePriorities bool) ([]question.Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("question count must be at least 1, got %d", count)
	}
	if reusePercent < 0 || reusePercent > 100 {
		return nil, fmt.Errorf("reuse percent must be within [0,100], got %d", reusePercent)
	}

	t.Lock()
	defer t.Unlock()

	e.logger.Info().
		Str("topic", t.Name).
		Int("count", count).
		Int("reuse_percent", reusePercent).
		Bool("use_priorities", usePriorities).
		Int("bank_size", t.BankSize()).
		Msg("loading question batch")

	result := make([]question.Question, 0, count)
	for slot := 0; slot < count; slot++ {
		roll := rand.Intn(100) + 1
		if roll <= reusePercent && t.BankSize() > 0 {
			q, err := t.WithdrawOldest()
			if err != nil {
				return nil, err
			}
			if err := t.SaveQuestions(); err != nil {
				return nil, err
			}
			e.logger.Debug().Str("topic", t.Name).Int("slot", slot).Msg("reused banked question")
			result = append(result, q)
			continue
		}

		q, err := e.generate(ctx, t, usePriorities)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot, err)
		}
		result = append(result, q)
		t.AppendQuestion(q)
		if err := t.SaveQuestions(); err != nil {
			return nil, err
		}
		e.logger.Debug().Str("topic", t.Name).Int("slot", slot).Msg("generated question")
	}

	return result, nil
}

func (e *Engine) generate(ctx context.Context, t *topic.Topic, usePriorities bool) (question.Question, error) {
	src, err := t.SelectSource(usePriorities)
	if err != nil {
		return question.Question{}, err
	}

	raw, err := e.ai.Complete(ctx, BuildPrompt(t.Name, src))
	if err != nil {
		return question.Question{}, fmt.Errorf("ai completion: %w", err)
	}

	q := question.Parse(raw, src.Link)
	q.Text = question.CleanText(raw)
	return q, nil
}
