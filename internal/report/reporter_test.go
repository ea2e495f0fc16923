package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eitango-quiz-service/internal/domain"
)

func TestSendPostsDocument(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	duration := 120
	client := New(server.URL)
	err := client.Send(context.Background(), domain.Report{
		App:           "eitango-chu3",
		Timestamp:     "2024-01-02T03:04:05Z",
		UserName:      "Yamada",
		Mode:          string(domain.ModeEnToJa),
		Difficulty:    "入門編",
		Score:         3,
		DurationSec:   &duration,
		QuestionSetID: "set-1",
		Questions: []domain.ReportQuestion{
			{English: "run", Japanese: "走る", Level: domain.TierBeginner},
		},
		Answers: []domain.AnswerRecord{
			{Index: 0, Prompt: "run", Given: "はしる", Expected: "走る", Correct: true},
		},
		DeviceInfo: "test-agent",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	for _, key := range []string{"app", "timestamp", "user_name", "mode", "difficulty", "score", "duration_sec", "question_set_id", "questions", "answers", "device_info"} {
		if _, ok := received[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}
	answers, _ := received["answers"].([]any)
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer in payload, got %v", received["answers"])
	}
	first, _ := answers[0].(map[string]any)
	if first["ok"] != true || first["a"] != "はしる" {
		t.Fatalf("unexpected answer payload: %v", first)
	}
}

func TestSendReportsSinkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL)
	if err := client.Send(context.Background(), domain.Report{}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
