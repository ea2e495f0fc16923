package pool

import (
	"math/rand"
	"testing"

	"eitango-quiz-service/internal/domain"
)

func words() []domain.WordItem {
	return []domain.WordItem{
		{No: "1", English: "run", Japanese: "走る", Level: domain.TierBeginner},
		{No: "2", English: "walk", Japanese: "歩く", Level: domain.TierBeginner},
		{No: "3", English: "consider", Japanese: "考える", Level: domain.TierBasic},
		{No: "4", English: "achieve", Japanese: "達成する", Level: domain.TierStandard},
	}
}

func TestFilterByTier(t *testing.T) {
	all := words()

	sel, _ := domain.SelectionByLabel("入門編")
	got := Filter(all, sel)
	if len(got) != 2 {
		t.Fatalf("expected 2 beginner words, got %d", len(got))
	}
	for _, w := range got {
		if w.Level != domain.TierBeginner {
			t.Fatalf("tier %q leaked through beginner filter", w.Level)
		}
	}

	sel, _ = domain.SelectionByLabel("入門＋基本編")
	got = Filter(all, sel)
	if len(got) != 3 {
		t.Fatalf("expected 3 words for composite selection, got %d", len(got))
	}
	// Source order must be preserved.
	if got[0].No != "1" || got[1].No != "2" || got[2].No != "3" {
		t.Fatalf("filter reordered the pool: %+v", got)
	}

	sel, _ = domain.SelectionByLabel("入門＋基本＋標準編")
	if got := Filter(all, sel); len(got) != 4 {
		t.Fatalf("expected full pool, got %d", len(got))
	}
}

func TestDrawDistinctAndBounded(t *testing.T) {
	all := words()
	rnd := rand.New(rand.NewSource(1))

	got := Draw(rnd, all, 20)
	if len(got) != len(all) {
		t.Fatalf("expected min(count, pool) = %d, got %d", len(all), len(got))
	}
	seen := map[string]bool{}
	for _, w := range got {
		if seen[w.No] {
			t.Fatalf("duplicate item %q drawn", w.No)
		}
		seen[w.No] = true
	}

	if got := Draw(rnd, all, 2); len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}

	if got := Draw(rnd, nil, 5); len(got) != 0 {
		t.Fatalf("expected empty draw from empty pool, got %d", len(got))
	}
}

func TestDrawDoesNotMutatePool(t *testing.T) {
	all := words()
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		Draw(rnd, all, len(all))
	}
	for i, w := range words() {
		if all[i] != w {
			t.Fatalf("pool mutated at index %d: %+v", i, all[i])
		}
	}
}

func TestWrongSubset(t *testing.T) {
	all := words()
	answers := []domain.AnswerRecord{
		{Index: 0, Correct: true},
		{Index: 1, Correct: false},
		{Index: 2, Correct: false},
	}
	got := Wrong(all, answers)
	if len(got) != 2 || got[0].No != "2" || got[1].No != "3" {
		t.Fatalf("unexpected wrong subset: %+v", got)
	}

	// Unattempted questions never count as wrong.
	if got := Wrong(all, answers[:1]); len(got) != 0 {
		t.Fatalf("expected no wrong answers, got %+v", got)
	}
}
