// Package source turns raw tabular records from an external word or roster
// source into domain values, applying the drop-silently rules for malformed
// rows.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"eitango-quiz-service/internal/domain"
	"eitango-quiz-service/internal/judge"
)

// WordFromFields builds a WordItem from its columns, precomputing the kana
// fold. It reports false when a required field is empty; such records are
// dropped, never fatal.
func WordFromFields(no, english, japanese, level string) (domain.WordItem, bool) {
	english = strings.TrimSpace(english)
	japanese = strings.TrimSpace(japanese)
	level = strings.TrimSpace(level)
	if english == "" || japanese == "" || level == "" {
		return domain.WordItem{}, false
	}
	return domain.WordItem{
		No:           strings.TrimSpace(no),
		English:      english,
		Japanese:     japanese,
		JapaneseKana: judge.Hiragana(japanese),
		Level:        level,
	}, true
}

// WordsFromRecords maps raw records to word items. Records are either
// [no, en, jp, level] or [en, jp, level]; anything shorter, or missing a
// required field, is skipped. skipHeader drops the first record.
func WordsFromRecords(records [][]string, skipHeader bool) []domain.WordItem {
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}
	words := make([]domain.WordItem, 0, len(records))
	for _, r := range records {
		var item domain.WordItem
		var ok bool
		switch {
		case len(r) >= 4:
			item, ok = WordFromFields(r[0], r[1], r[2], r[3])
		case len(r) == 3:
			item, ok = WordFromFields("", r[0], r[1], r[2])
		}
		if ok {
			words = append(words, item)
		}
	}
	return words
}

// WordsFromCSV reads word records from CSV data. skipHeader drops the first
// row when the file carries column names.
func WordsFromCSV(r io.Reader, skipHeader bool) ([]domain.WordItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read words csv: %w", err)
	}
	return WordsFromRecords(records, skipHeader), nil
}

// RosterFromRecords maps raw records to the learner allow-list. The first
// record is always a header. The display name column is optional; for
// duplicate ids the last-seen name wins.
func RosterFromRecords(records [][]string) domain.Roster {
	roster := make(domain.Roster)
	if len(records) == 0 {
		return roster
	}
	for _, r := range records[1:] {
		if len(r) == 0 {
			continue
		}
		id := strings.TrimSpace(r[0])
		if id == "" {
			continue
		}
		name := ""
		if len(r) > 1 {
			name = strings.TrimSpace(r[1])
		}
		roster[id] = name
	}
	return roster
}
