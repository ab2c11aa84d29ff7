// Package file implements the catalog and result contracts over flat files,
// matching the pipe-delimited layout of the legacy data directory:
//
//	questionId|questionText|option1,option2,...|correctIndex|category|points
//
// Lines starting with # and blank lines are ignored. Malformed entries are
// skipped with a logged warning rather than failing the load.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/logging"
)

// CatalogLoader reads a question catalog from a pipe-delimited text file.
// The catalog ID doubles as the file path unless a fixed path is configured.
type CatalogLoader struct {
	path string
	log  logrus.FieldLogger
}

func NewCatalogLoader(path string, log logrus.FieldLogger) *CatalogLoader {
	if log == nil {
		log = logging.NewNop()
	}
	return &CatalogLoader{path: path, log: log}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	path := l.path
	if path == "" {
		path = catalogID
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	var questions []domain.Question
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		question, err := parseQuestionLine(line)
		if err != nil {
			l.log.WithFields(logrus.Fields{
				"path": path,
				"line": lineNo,
			}).WithError(err).Warn("skipping malformed question")
			continue
		}
		questions = append(questions, question)
	}
	if err := scanner.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("read questions file: %w", err)
	}
	if len(questions) == 0 {
		return domain.Catalog{}, domain.ErrEmptyCatalog
	}

	return domain.Catalog{ID: catalogID, Questions: questions}, nil
}

func parseQuestionLine(line string) (domain.Question, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 6 {
		return domain.Question{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || id <= 0 {
		return domain.Question{}, fmt.Errorf("invalid question id %q", parts[0])
	}

	text := strings.TrimSpace(parts[1])
	if text == "" {
		return domain.Question{}, fmt.Errorf("empty question text")
	}

	rawOptions := strings.Split(parts[2], ",")
	options := make([]string, 0, len(rawOptions))
	for _, opt := range rawOptions {
		options = append(options, strings.TrimSpace(opt))
	}
	if len(options) < 2 {
		return domain.Question{}, fmt.Errorf("need at least 2 options, got %d", len(options))
	}

	correctIndex, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil || correctIndex < 0 || correctIndex >= len(options) {
		return domain.Question{}, fmt.Errorf("correct index %q out of range", parts[3])
	}

	points, err := strconv.Atoi(strings.TrimSpace(parts[5]))
	if err != nil || points <= 0 {
		return domain.Question{}, fmt.Errorf("invalid points %q", parts[5])
	}

	return domain.Question{
		ID:           id,
		Text:         text,
		Options:      options,
		CorrectIndex: correctIndex,
		Category:     strings.TrimSpace(parts[4]),
		Points:       points,
	}, nil
}
