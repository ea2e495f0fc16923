// Package pool filters the vocabulary by difficulty and draws randomized
// question sequences.
package pool

import (
	"math/rand"

	"eitango-quiz-service/internal/domain"
)

// Filter returns the words whose tier is part of the selection, preserving
// source order. The input slice is never mutated.
func Filter(items []domain.WordItem, selection domain.DifficultySelection) []domain.WordItem {
	out := make([]domain.WordItem, 0, len(items))
	for _, item := range items {
		if selection.Contains(item.Level) {
			out = append(out, item)
		}
	}
	return out
}

// Draw shuffles a copy of the pool and truncates it to min(count, len(pool)).
// Every returned item is distinct as long as the pool itself holds no
// duplicates. An empty pool yields an empty sequence.
func Draw(rnd *rand.Rand, items []domain.WordItem, count int) []domain.WordItem {
	drawn := make([]domain.WordItem, len(items))
	copy(drawn, items)
	rnd.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	if count < len(drawn) {
		drawn = drawn[:count]
	}
	return drawn
}

// Wrong returns the subsequence of questions whose recorded answer was
// incorrect, in question order. Questions without a record (session ended
// early) are not included; they were never attempted.
func Wrong(questions []domain.WordItem, answers []domain.AnswerRecord) []domain.WordItem {
	out := make([]domain.WordItem, 0, len(answers))
	for _, rec := range answers {
		if rec.Correct {
			continue
		}
		if rec.Index >= 0 && rec.Index < len(questions) {
			out = append(out, questions[rec.Index])
		}
	}
	return out
}
