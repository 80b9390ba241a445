package players

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmptyName = errors.New("player name cannot be empty")

type Repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) *Repository { return &Repository{db: db} }

// insertIfMissing creates the player with zero games unless it already exists.
func insertIfMissing(tx *gorm.DB, name string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Player{ID: name, Name: name}).Error
}

// Ensure returns the player with the trimmed name, creating it on first use.
func (r *Repository) Ensure(ctx context.Context, name string) (Player, error) {
	id := strings.TrimSpace(name)
	if id == "" {
		return Player{}, ErrEmptyName
	}
	var p Player
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertIfMissing(tx, id); err != nil {
			return err
		}
		return tx.First(&p, "id = ?", id).Error
	})
	if err != nil {
		return Player{}, fmt.Errorf("ensure player %q: %w", id, err)
	}
	return p, nil
}

// IncrementGames adds one game per occurrence of each name. Blank names are
// skipped. The whole batch commits or fails as one transaction, and the
// increment happens in SQL so concurrent batches cannot lose updates.
func (r *Repository) IncrementGames(ctx context.Context, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if err := insertIfMissing(tx, name); err != nil {
				return err
			}
			if err := tx.Model(&Player{}).Where("id = ?", name).
				UpdateColumn("games", gorm.Expr("games + ?", 1)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment games: %w", err)
	}
	return nil
}

// List returns every player ordered by name.
func (r *Repository) List(ctx context.Context) ([]Player, error) {
	out := []Player{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
