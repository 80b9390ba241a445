package players

// Player is keyed by its trimmed name; ID and Name always hold the same value.
type Player struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null;uniqueIndex" json:"name"`
	Games int    `gorm:"not null;default:0" json:"games"`
}
