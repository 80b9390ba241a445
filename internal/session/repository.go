package session

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "github.com/kickelo/kickelo/internal/db"
)

type Repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) *Repository { return &Repository{db: db} }

func ensureRow(tx *gorm.DB) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&State{ID: singletonID, ActivePlayers: "[]"}).Error
}

// GetOrCreate returns the session row, creating it with no active players.
func (r *Repository) GetOrCreate(ctx context.Context) (State, error) {
	var s State
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRow(tx); err != nil {
			return err
		}
		return tx.First(&s, singletonID).Error
	})
	if err != nil {
		return State{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// Update replaces the active player list wholesale. Names are stored as
// given; they are not checked against the roster.
func (r *Repository) Update(ctx context.Context, names []string) (State, error) {
	encoded, err := dbpkg.EncodeStrings(names)
	if err != nil {
		return State{}, fmt.Errorf("encode active players: %w", err)
	}
	var s State
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRow(tx); err != nil {
			return err
		}
		if err := tx.Model(&State{}).Where("id = ?", singletonID).
			Update("active_players", encoded).Error; err != nil {
			return err
		}
		return tx.First(&s, singletonID).Error
	})
	if err != nil {
		return State{}, fmt.Errorf("update session: %w", err)
	}
	return s, nil
}

func ToAPI(s State) Response {
	return Response{ActivePlayers: dbpkg.DecodeStrings(s.ActivePlayers)}
}
