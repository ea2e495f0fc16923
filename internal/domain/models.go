package domain

// Base difficulty tiers as they appear in the vocabulary source.
const (
	TierBeginner = "入門編"
	TierBasic    = "基本編"
	TierStandard = "標準編"
)

// DifficultySelection is a named filter over one or more base tiers.
// Composite selections are views over the base tiers; a word only ever
// carries a single tier label.
type DifficultySelection struct {
	Label string
	Tiers []string
}

// Contains reports whether the given tier is part of the selection.
func (s DifficultySelection) Contains(tier string) bool {
	for _, t := range s.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Selections lists the difficulty choices offered to the learner, in
// display order.
var Selections = []DifficultySelection{
	{Label: "入門編", Tiers: []string{TierBeginner}},
	{Label: "基本編", Tiers: []string{TierBasic}},
	{Label: "標準編", Tiers: []string{TierStandard}},
	{Label: "入門＋基本編", Tiers: []string{TierBeginner, TierBasic}},
	{Label: "入門＋基本＋標準編", Tiers: []string{TierBeginner, TierBasic, TierStandard}},
}

// SelectionByLabel resolves a difficulty label to its tier set.
func SelectionByLabel(label string) (DifficultySelection, bool) {
	for _, s := range Selections {
		if s.Label == label {
			return s, true
		}
	}
	return DifficultySelection{}, false
}

// Mode determines which side of a word is shown as the prompt and which
// side the learner has to produce.
type Mode string

const (
	// ModeJaToEn prompts with the Japanese text and expects the English word.
	ModeJaToEn Mode = "日本語→英単語"
	// ModeEnToJa prompts with the English word and expects the Japanese text.
	ModeEnToJa Mode = "英単語→日本語"
)

// Modes lists the question modes in display order.
var Modes = []Mode{ModeJaToEn, ModeEnToJa}

// ModeByLabel resolves a mode label sent by a client.
func ModeByLabel(label string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == label {
			return m, true
		}
	}
	return "", false
}

// WordItem is one vocabulary entry. Items are immutable once loaded;
// JapaneseKana is the hiragana fold of Japanese, precomputed at load so
// judging never depends on which syllabary the reference was written in.
type WordItem struct {
	No           string `json:"no,omitempty"`
	English      string `json:"en"`
	Japanese     string `json:"jp"`
	JapaneseKana string `json:"jpKana,omitempty"`
	Level        string `json:"level"`
}

// Prompt returns the text shown to the learner for the given mode.
func (w WordItem) Prompt(mode Mode) string {
	if mode == ModeJaToEn {
		return w.Japanese
	}
	return w.English
}

// Expected returns the reference answer text for the given mode.
func (w WordItem) Expected(mode Mode) string {
	if mode == ModeJaToEn {
		return w.English
	}
	return w.Japanese
}

// AnswerRecord captures one judged attempt. Records are append-only; a
// retry pass produces new records in a new session rather than editing
// old ones. JSON keys follow the result sink's expected payload.
type AnswerRecord struct {
	Index    int    `json:"qIndex"`
	Prompt   string `json:"q"`
	Given    string `json:"a"`
	Expected string `json:"correct"`
	Correct  bool   `json:"ok"`
}

// Roster maps learner ids to optional display names. An id mapped to an
// empty string is still a valid login.
type Roster map[string]string

// Phase enumerates the quiz session states.
type Phase int

const (
	PhaseAuthenticating Phase = iota
	PhaseSetup
	PhaseInProgress
	PhaseReviewing
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseSetup:
		return "setup"
	case PhaseInProgress:
		return "inProgress"
	case PhaseReviewing:
		return "reviewing"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Report is the result document handed to the result sink. Field names
// match what the sink script expects.
type Report struct {
	App           string           `json:"app"`
	Timestamp     string           `json:"timestamp"`
	UserName      string           `json:"user_name"`
	Mode          string           `json:"mode"`
	Difficulty    string           `json:"difficulty"`
	Score         int              `json:"score"`
	DurationSec   *int             `json:"duration_sec"`
	QuestionSetID string           `json:"question_set_id"`
	Questions     []ReportQuestion `json:"questions"`
	Answers       []AnswerRecord   `json:"answers"`
	DeviceInfo    string           `json:"device_info"`
}

// ReportQuestion is the per-question slice of a report.
type ReportQuestion struct {
	English  string `json:"en"`
	Japanese string `json:"jp"`
	Level    string `json:"level"`
}
