package session

// singletonID is the key of the one session row.
const singletonID = 1

// State holds the active player list as a JSON-encoded name list.
type State struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false"`
	ActivePlayers string `gorm:"type:text;not null"`
}

func (State) TableName() string { return "session_state" }

type Response struct {
	ActivePlayers []string `json:"activePlayers"`
}
