package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"eitango-quiz-service/internal/domain"
	"eitango-quiz-service/internal/source"
)

// CatalogLoader loads the vocabulary and roster tables from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadWords(ctx context.Context) ([]domain.WordItem, error) {
	rows, err := l.pool.Query(ctx, `SELECT COALESCE(no, ''), en, jp, level FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	var words []domain.WordItem
	for rows.Next() {
		var no, en, jp, level string
		if err := rows.Scan(&no, &en, &jp, &level); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		// Rows missing a required field are dropped, same as any other source.
		if item, ok := source.WordFromFields(no, en, jp, level); ok {
			words = append(words, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return words, nil
}

func (l *CatalogLoader) LoadRoster(ctx context.Context) (domain.Roster, error) {
	rows, err := l.pool.Query(ctx, `SELECT learner_id, COALESCE(display_name, '') FROM roster`)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	roster := make(domain.Roster)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan roster: %w", err)
		}
		if id == "" {
			continue
		}
		roster[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}
