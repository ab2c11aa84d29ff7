package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/logging"
)

// ResultStore appends finalized results to a pipe-delimited file, one line
// per result:
//
//	participantId|displayName|totalScore|maxScore|correctAnswers|totalQuestions|elapsedMs|completedAt
//
// The answer log is not written to the flat file; the Postgres store keeps
// the full snapshot.
type ResultStore struct {
	path string
	log  logrus.FieldLogger
	mu   sync.Mutex
}

func NewResultStore(path string, log logrus.FieldLogger) *ResultStore {
	if log == nil {
		log = logging.NewNop()
	}
	return &ResultStore{path: path, log: log}
}

func (s *ResultStore) Save(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s|%s|%d|%d|%d|%d|%d|%s\n",
		result.ParticipantID,
		result.DisplayName,
		result.TotalScore,
		result.MaxScore,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.Elapsed.Milliseconds(),
		result.CompletedAt.UTC().Format(time.RFC3339),
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ResultStore) List(_ context.Context) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	var results []domain.Result
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := parseResultLine(line)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"path": s.path,
				"line": lineNo,
			}).WithError(err).Warn("skipping malformed result")
			continue
		}
		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	return results, nil
}

func parseResultLine(line string) (domain.Result, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 8 {
		return domain.Result{}, fmt.Errorf("expected 8 fields, got %d", len(parts))
	}

	ints := make([]int, 4)
	for i, idx := range []int{2, 3, 4, 5} {
		v, err := strconv.Atoi(parts[idx])
		if err != nil {
			return domain.Result{}, fmt.Errorf("invalid numeric field %q", parts[idx])
		}
		ints[i] = v
	}

	elapsedMS, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return domain.Result{}, fmt.Errorf("invalid elapsed %q", parts[6])
	}
	completedAt, err := time.Parse(time.RFC3339, parts[7])
	if err != nil {
		return domain.Result{}, fmt.Errorf("invalid completed timestamp %q", parts[7])
	}

	return domain.Result{
		ParticipantID:  parts[0],
		DisplayName:    parts[1],
		TotalScore:     ints[0],
		MaxScore:       ints[1],
		CorrectAnswers: ints[2],
		TotalQuestions: ints[3],
		Elapsed:        time.Duration(elapsedMS) * time.Millisecond,
		CompletedAt:    completedAt,
	}, nil
}
