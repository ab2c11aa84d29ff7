package memory

import (
	"context"
	"testing"
	"time"

	"quizmaster-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(map[string]domain.Catalog{
			"default": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "default"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetCatalog(context.Background(), "default"); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderMiss(t *testing.T) {
	loader := NewStaticCatalogLoader(map[string]domain.Catalog{})
	if _, err := loader.LoadCatalog(context.Background(), "nope"); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx, catalogID)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID: "default",
		Questions: []domain.Question{
			{
				ID:           1,
				Text:         "What is 2 + 2?",
				Options:      []string{"3", "4"},
				CorrectIndex: 1,
				Category:     "Math",
				Points:       10,
			},
		},
	}
}
