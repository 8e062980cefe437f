package brief

import (
	"context"
	"fmt"
	"testing"

	"solid-waffle/internal/domain"
)

func TestMemoryStoreNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Append(ctx, domain.BriefArtifact{ID: fmt.Sprintf("a%d", i), Type: domain.BriefTypeGen})
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(list))
	}
	if list[0].ID != "a2" || list[2].ID != "a0" {
		t.Fatalf("expected newest-first order, got %s..%s", list[0].ID, list[2].ID)
	}
}

func TestMemoryStoreCapsAtMax(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < maxArtifacts+10; i++ {
		s.Append(ctx, domain.BriefArtifact{ID: fmt.Sprintf("a%d", i)})
	}
	list, _ := s.List(ctx)
	if len(list) != maxArtifacts {
		t.Fatalf("expected cap at %d, got %d", maxArtifacts, len(list))
	}
	if list[0].ID != fmt.Sprintf("a%d", maxArtifacts+9) {
		t.Fatalf("expected newest retained, got %s", list[0].ID)
	}
	if list[len(list)-1].ID != "a10" {
		t.Fatalf("expected oldest truncated, got %s", list[len(list)-1].ID)
	}
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Append(ctx, domain.BriefArtifact{ID: "original"})

	list, _ := s.List(ctx)
	list[0].ID = "mutated"

	again, _ := s.List(ctx)
	if again[0].ID != "original" {
		t.Fatal("expected List to return a copy")
	}
}
