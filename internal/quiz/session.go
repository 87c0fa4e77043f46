package quiz

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizdesk/aiquiz/internal/question"
	"github.com/quizdesk/aiquiz/internal/topic"
)

// SavePolicy controls which session questions return to the bank after a
// quiz.
type SavePolicy string

const (
	// SaveWrong banks only questions the user missed, so they come around
	// again. The default.
	SaveWrong SavePolicy = "wrong"
	// SaveAll banks every question from the session.
	SaveAll SavePolicy = "all"
	// SaveNone banks nothing.
	SaveNone SavePolicy = "none"
)

// Session tracks one quiz run: the loaded questions, the user's answer sets,
// and the final save decision. Reused questions were already withdrawn from
// the bank by the engine; Finish re-appends a question (reused or fresh) only
// when the save policy selects it, so under SaveWrong a reused question
// answered correctly leaves the bank for good.
type Session struct {
	ID        string
	Topic     *topic.Topic
	Questions []question.Question

	answers [][]string
	logger  zerolog.Logger
}

func NewSession(t *topic.Topic, questions []question.Question, logger zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		Topic:     t,
		Questions: questions,
		logger:    logger.With().Str("component", "session").Str("session_id", id).Logger(),
	}
}

// Answer records the selected option letters for the next unanswered slot.
func (s *Session) Answer(selected []string) {
	s.answers = append(s.answers, question.NormalizeAnswers(selected))
}

// Result pairs one question with the user's answer for it.
type Result struct {
	Question question.Question
	Selected []string
	Correct  bool
}

// Results evaluates every slot. Unanswered slots count as an empty selection.
func (s *Session) Results() []Result {
	results := make([]Result, len(s.Questions))
	for i, q := range s.Questions {
		var selected []string
		if i < len(s.answers) {
			selected = s.answers[i]
		}
		results[i] = Result{
			Question: q,
			Selected: selected,
			Correct:  q.MatchesAnswers(selected),
		}
	}
	return results
}

// Score returns the number of correctly answered slots.
func (s *Session) Score() int {
	score := 0
	for _, r := range s.Results() {
		if r.Correct {
			score++
		}
	}
	return score
}

// Finish applies the save policy, persisting any selected questions back to
// the topic's bank, and returns the final score.
func (s *Session) Finish(policy SavePolicy) (int, error) {
	results := s.Results()

	score := 0
	var toSave []question.Question
	for _, r := range results {
		if r.Correct {
			score++
		}
		switch policy {
		case SaveAll:
			toSave = append(toSave, r.Question)
		case SaveWrong:
			if !r.Correct {
				toSave = append(toSave, r.Question)
			}
		}
	}

	if len(toSave) > 0 {
		s.Topic.Lock()
		s.Topic.AppendQuestions(toSave)
		err := s.Topic.SaveQuestions()
		s.Topic.Unlock()
		if err != nil {
			return score, err
		}
	}

	s.logger.Info().
		Str("topic", s.Topic.Name).
		Int("score", score).
		Int("total", len(s.Questions)).
		Int("saved", len(toSave)).
		Str("policy", string(policy)).
		Msg("session finished")

	return score, nil
}
