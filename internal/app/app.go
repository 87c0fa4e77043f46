package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizdesk/aiquiz/internal/ai"
	"github.com/quizdesk/aiquiz/internal/config"
	"github.com/quizdesk/aiquiz/internal/keystore"
	"github.com/quizdesk/aiquiz/internal/logging"
	"github.com/quizdesk/aiquiz/internal/question"
	"github.com/quizdesk/aiquiz/internal/quiz"
	"github.com/quizdesk/aiquiz/internal/topic"
)

// Application wires configuration, storage, the AI client and the lifecycle
// engine behind a terminal front-end.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	store  *topic.Store
	topics []*topic.Topic
	client *ai.Client
	engine *quiz.Engine

	in  *bufio.Scanner
	out io.Writer
}

// New bootstraps logger, credential store, AI client and topic discovery.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	key, err := keystore.Load(cfg.Storage.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}
	if key == "" {
		logger.Warn().Msg("no API key configured; question generation will fail until one is set")
	}

	store := topic.NewStore(cfg.Storage.DataDir, cfg.Storage.SourcesDir, logger)
	topics, err := store.DiscoverTopics()
	if err != nil {
		return nil, fmt.Errorf("discover topics: %w", err)
	}
	logger.Info().Int("topics", len(topics)).Msg("topics loaded")

	client := ai.NewClient(aiConfig(cfg, key), quiz.SystemPrompt, logger)

	return &Application{
		cfg:    cfg,
		logger: logger,
		store:  store,
		topics: topics,
		client: client,
		engine: quiz.NewEngine(client, logger),
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func aiConfig(cfg *config.App, key string) ai.Config {
	return ai.Config{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		APIKey:  key,
		Timeout: cfg.AI.HTTPTimeout,
	}
}

// SetAPIKey validates a key with one trial completion, persists it and swaps
// the live client. An invalid key leaves the stored key untouched.
func (a *Application) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}

	candidate := ai.NewClient(aiConfig(a.cfg, key), quiz.SystemPrompt, a.logger)
	if err := candidate.ValidateKey(ctx); err != nil {
		return fmt.Errorf("api key rejected: %w", err)
	}
	if err := keystore.Save(a.cfg.Storage.KeyFile, key); err != nil {
		return err
	}

	a.client = candidate
	a.engine = quiz.NewEngine(candidate, a.logger)
	a.logger.Info().Msg("api key updated")
	return nil
}

// Run drives the interactive terminal session until the user quits or the
// context is canceled.
func (a *Application) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		if len(a.topics) == 0 {
			fmt.Fprintln(a.out, "No topics found.")
		} else {
			fmt.Fprintln(a.out, "Topics:")
			for i, t := range a.topics {
				fmt.Fprintf(a.out, "  %d) %s (%d sources, %d banked questions)\n",
					i+1, t.Name, len(t.Sources), t.BankSize())
			}
		}
		fmt.Fprintln(a.out, "Commands: <number> start quiz, n new topic, k set API key, q quit")

		input, ok := a.prompt("> ")
		if !ok {
			return nil
		}
		switch {
		case input == "q":
			return nil
		case input == "n":
			a.createTopic()
		case input == "k":
			a.updateAPIKey(ctx)
		default:
			idx, err := strconv.Atoi(input)
			if err != nil || idx < 1 || idx > len(a.topics) {
				fmt.Fprintln(a.out, "Unknown command.")
				continue
			}
			if err := a.runQuiz(ctx, a.topics[idx-1]); err != nil {
				fmt.Fprintf(a.out, "Error loading questions: %v\n", err)
			}
		}
	}
}

func (a *Application) createTopic() {
	name, ok := a.prompt("New topic name: ")
	if !ok || name == "" {
		return
	}
	t, err := a.store.CreateTopic(name)
	if err != nil {
		fmt.Fprintf(a.out, "Could not create topic: %v\n", err)
		return
	}
	a.topics = append(a.topics, t)
	sort.Slice(a.topics, func(i, j int) bool { return a.topics[i].Name < a.topics[j].Name })
	fmt.Fprintf(a.out, "Topic %q created. Add sources to its file under %s before generating.\n",
		t.Name, a.cfg.Storage.SourcesDir)
}

func (a *Application) updateAPIKey(ctx context.Context) {
	key, ok := a.prompt("New API key: ")
	if !ok {
		return
	}
	fmt.Fprintln(a.out, "Testing API key...")
	if err := a.SetAPIKey(ctx, key); err != nil {
		fmt.Fprintf(a.out, "Invalid API key: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "API key saved.")
}

func (a *Application) runQuiz(ctx context.Context, t *topic.Topic) error {
	count := a.promptInt("Number of questions", a.cfg.Quiz.DefaultQuestionCount)
	reuse := a.promptInt("Reuse percent (0-100)", a.cfg.Quiz.DefaultReusePercent)
	usePriorities := a.promptYesNo("Use source priorities", false)
	policy := a.promptPolicy()

	fmt.Fprintln(a.out, "Loading questions... please wait.")
	questions, err := a.engine.LoadBatch(ctx, t, count, reuse, usePriorities)
	if err != nil {
		return err
	}

	session := quiz.NewSession(t, questions, a.logger)
	for i, q := range questions {
		fmt.Fprintf(a.out, "\nQuestion %d: %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(a.out, "  %s) %s\n", question.OptionLetter(j), opt)
		}
		fmt.Fprintf(a.out, "Select %d answer(s), e.g. \"a c\": ", len(q.CorrectAnswers))
		answer, ok := a.readLine()
		if !ok {
			break
		}
		session.Answer(parseLetters(answer))
	}

	score, err := session.Finish(policy)
	if err != nil {
		fmt.Fprintf(a.out, "Warning: could not save questions: %v\n", err)
	}

	fmt.Fprintf(a.out, "\nQuiz finished! Your score: %d of %d\n", score, len(questions))
	for i, r := range session.Results() {
		verdict := "wrong"
		if r.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(a.out, "  Question %d: yours [%s], correct [%s] - %s\n",
			i+1, strings.Join(r.Selected, " "), strings.Join(r.Question.CorrectAnswers, " "), verdict)
	}
	return nil
}

func (a *Application) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	return a.readLine()
}

func (a *Application) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *Application) promptInt(label string, def int) int {
	input, ok := a.prompt(fmt.Sprintf("%s [%d]: ", label, def))
	if !ok || input == "" {
		return def
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number, using %d.\n", def)
		return def
	}
	return n
}

func (a *Application) promptYesNo(label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	input, ok := a.prompt(fmt.Sprintf("%s [%s]: ", label, hint))
	if !ok || input == "" {
		return def
	}
	return strings.EqualFold(input, "y") || strings.EqualFold(input, "yes")
}

func (a *Application) promptPolicy() quiz.SavePolicy {
	input, ok := a.prompt("Save questions afterwards (all/wrong/none) [wrong]: ")
	if !ok {
		return quiz.SaveWrong
	}
	switch strings.ToLower(input) {
	case "all":
		return quiz.SaveAll
	case "none":
		return quiz.SaveNone
	default:
		return quiz.SaveWrong
	}
}

func parseLetters(input string) []string {
	input = strings.ReplaceAll(input, ",", " ")
	var letters []string
	for _, f := range strings.Fields(input) {
		letters = append(letters, strings.ToLower(f))
	}
	return letters
}
