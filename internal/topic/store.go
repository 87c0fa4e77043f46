package topic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizdesk/aiquiz/internal/question"
)

// Store reads and writes per-topic JSON files. A topic named "Go" keeps its
// sources in <sourcesDir>/go.json and its question bank in <dataDir>/go.json;
// the lowercased name is the storage key, so topic names are unique
// case-insensitively.
//
// Reads favor availability: a missing or corrupt file is an empty collection.
// Writes are authoritative full-file overwrites and their failures surface.
type Store struct {
	dataDir    string
	sourcesDir string
	logger     zerolog.Logger
}

func NewStore(dataDir, sourcesDir string, logger zerolog.Logger) *Store {
	return &Store{
		dataDir:    dataDir,
		sourcesDir: sourcesDir,
		logger:     logger.With().Str("component", "topic_store").Logger(),
	}
}

// EnsureDirs creates the storage directories if needed.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.dataDir, s.sourcesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) sourcesPath(name string) string {
	return filepath.Join(s.sourcesDir, strings.ToLower(name)+".json")
}

func (s *Store) questionsPath(name string) string {
	return filepath.Join(s.dataDir, strings.ToLower(name)+".json")
}

// LoadSources returns the topic's source list in stored order. Missing or
// unreadable files yield an empty list.
func (s *Store) LoadSources(name string) []Source {
	data, err := os.ReadFile(s.sourcesPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("topic", name).Msg("sources file unreadable, treating as empty")
		}
		return nil
	}
	var sources []Source
	if err := json.Unmarshal(data, &sources); err != nil {
		s.logger.Warn().Err(err).Str("topic", name).Msg("sources file corrupt, treating as empty")
		return nil
	}
	return sources
}

// SaveSources overwrites the topic's source list file.
func (s *Store) SaveSources(name string, sources []Source) error {
	if sources == nil {
		sources = []Source{}
	}
	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	if err := os.WriteFile(s.sourcesPath(name), data, 0o644); err != nil {
		return fmt.Errorf("write sources file: %w", err)
	}
	return nil
}

// LoadQuestions returns the topic's question bank in stored (FIFO) order.
// Missing or corrupt banks yield an empty bank; the worst case is losing
// reuse history, never active state.
func (s *Store) LoadQuestions(name string) []question.Question {
	data, err := os.ReadFile(s.questionsPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("topic", name).Msg("bank file unreadable, treating as empty")
		}
		return nil
	}
	var qs []question.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		s.logger.Warn().Err(err).Str("topic", name).Msg("bank file corrupt, treating as empty")
		return nil
	}
	for i := range qs {
		qs[i].CorrectAnswers = question.NormalizeAnswers(qs[i].CorrectAnswers)
	}
	return qs
}

// SaveQuestions overwrites the topic's question bank file with the full
// current contents.
func (s *Store) SaveQuestions(name string, qs []question.Question) error {
	if qs == nil {
		qs = []question.Question{}
	}
	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.WriteFile(s.questionsPath(name), data, 0o644); err != nil {
		return fmt.Errorf("write bank file: %w", err)
	}
	return nil
}

// DiscoverTopics scans the sources directory and builds one Topic per
// source-list file, loading sources and bank eagerly. Topic names derive from
// file names, display-capitalized.
func (s *Store) DiscoverTopics() ([]*Topic, error) {
	if err := s.EnsureDirs(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.sourcesDir)
	if err != nil {
		return nil, fmt.Errorf("read sources dir: %w", err)
	}

	var topics []*Topic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := displayName(strings.TrimSuffix(entry.Name(), ".json"))
		topics = append(topics, New(name, s))
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

// CreateTopic registers a new topic by writing an empty source list. It fails
// if the topic already exists under any casing.
func (s *Store) CreateTopic(name string) (*Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("topic name cannot be empty")
	}
	if err := s.EnsureDirs(); err != nil {
		return nil, err
	}
	path := s.sourcesPath(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("topic %q already exists", name)
	}
	if err := s.SaveSources(name, nil); err != nil {
		return nil, err
	}
	return New(displayName(name), s), nil
}

func displayName(name string) string {
	name = strings.ToLower(name)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
