package matches

import "encoding/json"

// Record is the stored row. Teams are JSON-encoded name lists; the optional
// payload columns hold JSON text or NULL.
type Record struct {
	ID                 int64   `gorm:"primaryKey;autoIncrement"`
	TeamA              string  `gorm:"type:text;not null"`
	TeamB              string  `gorm:"type:text;not null"`
	Winner             string  `gorm:"not null"`
	GoalsA             int     `gorm:"not null"`
	GoalsB             int     `gorm:"not null"`
	Timestamp          int64   `gorm:"not null;index"`
	PairingMetadata    *string `gorm:"type:text"`
	PositionsConfirmed *string `gorm:"type:text"`
	Ranked             bool    `gorm:"not null"`
	GoalLog            *string `gorm:"type:text"`
	MatchDuration      *int
	VibrationLog       *string `gorm:"type:text"`
}

func (Record) TableName() string { return "matches" }

// Match is the read-side representation. The vibration log is write-only and
// has no field here.
type Match struct {
	ID                 string          `json:"id"`
	TeamA              []string        `json:"teamA"`
	TeamB              []string        `json:"teamB"`
	Winner             string          `json:"winner"`
	GoalsA             int             `json:"goalsA"`
	GoalsB             int             `json:"goalsB"`
	Timestamp          int64           `json:"timestamp"`
	PairingMetadata    json.RawMessage `json:"pairingMetadata"`
	PositionsConfirmed json.RawMessage `json:"positionsConfirmed"`
	Ranked             bool            `json:"ranked"`
	GoalLog            json.RawMessage `json:"goalLog"`
	MatchDuration      *int            `json:"matchDuration"`
}

const (
	TeamA = "A"
	TeamB = "B"
)

// Submission is a proposed match result. Payload fields are opaque JSON and
// are not interpreted beyond their outer shape.
type Submission struct {
	TeamA              []string
	TeamB              []string
	Winner             string
	GoalsA             int
	GoalsB             int
	PairingMetadata    json.RawMessage
	PositionsConfirmed *PositionsConfirmed
	Ranked             bool
	GoalLog            json.RawMessage
	MatchDuration      *int
	VibrationLog       json.RawMessage
}

// PositionsConfirmed is either a bare flag or a structured payload. Exactly
// one of Flag and Details is set.
type PositionsConfirmed struct {
	Flag    *bool
	Details json.RawMessage
}

// Normalized returns the structured form that gets stored: a flag becomes
// {"confirmed": flag}.
func (p PositionsConfirmed) Normalized() (json.RawMessage, error) {
	if p.Flag != nil {
		return json.Marshal(map[string]bool{"confirmed": *p.Flag})
	}
	return p.Details, nil
}
