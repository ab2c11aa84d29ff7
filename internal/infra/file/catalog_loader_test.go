package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quizmaster-service/internal/domain"
)

func TestCatalogLoaderParsesQuestionsFile(t *testing.T) {
	path := writeFile(t, "questions.txt", `
# Quiz Questions
# Format: questionId|questionText|option1,option2,...|correctIndex|category|points

1|What is the default port for HTTP?|80,443,8080,3306|0|Networking|10
2|What does TCP stand for?|Transfer Control Protocol,Transmission Control Protocol|1|Networking|10
`)

	loader := NewCatalogLoader(path, nil)
	catalog, err := loader.LoadCatalog(context.Background(), "default")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(catalog.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(catalog.Questions))
	}
	q := catalog.Questions[0]
	if q.ID != 1 || q.CorrectIndex != 0 || q.Points != 10 || len(q.Options) != 4 {
		t.Fatalf("unexpected first question: %+v", q)
	}
	if catalog.MaxScore() != 20 {
		t.Fatalf("expected max score 20, got %d", catalog.MaxScore())
	}
}

func TestCatalogLoaderSkipsMalformedLines(t *testing.T) {
	path := writeFile(t, "questions.txt", `
1|Good question|a,b|1|Cat|5
not|enough|fields
2|Bad correct index|a,b|7|Cat|5
3|Bad points|a,b|0|Cat|zero
4|Single option|only|0|Cat|5
5|Another good one|a,b,c|2|Cat|5
`)

	loader := NewCatalogLoader(path, nil)
	catalog, err := loader.LoadCatalog(context.Background(), "default")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(catalog.Questions) != 2 {
		t.Fatalf("expected malformed lines skipped, got %d questions", len(catalog.Questions))
	}
	if catalog.Questions[0].ID != 1 || catalog.Questions[1].ID != 5 {
		t.Fatalf("unexpected surviving questions: %+v", catalog.Questions)
	}
}

func TestCatalogLoaderRejectsEmptyCatalog(t *testing.T) {
	path := writeFile(t, "questions.txt", "# only comments\n")

	loader := NewCatalogLoader(path, nil)
	if _, err := loader.LoadCatalog(context.Background(), "default"); err != domain.ErrEmptyCatalog {
		t.Fatalf("expected empty catalog error, got %v", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
