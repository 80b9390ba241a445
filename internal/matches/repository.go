package matches

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository { return &Repository{db: db, now: time.Now} }

// List returns all matches, most recent first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	out := []Record{}
	err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&out).Error
	return out, err
}

// Create stores a validated submission stamped with the current time in
// milliseconds.
func (r *Repository) Create(ctx context.Context, s Submission) (Record, error) {
	row, err := toRecord(s, r.now().UnixMilli())
	if err != nil {
		return Record{}, fmt.Errorf("encode match: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Record{}, fmt.Errorf("create match: %w", err)
	}
	return row, nil
}

// PurgeVibrationLogs clears every stored vibration log and reports how many
// matches were checked and how many were changed.
func (r *Repository) PurgeVibrationLogs(ctx context.Context) (checked, updated int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Record{}).Count(&checked).Error; err != nil {
			return err
		}
		res := tx.Model(&Record{}).Where("vibration_log IS NOT NULL").
			UpdateColumn("vibration_log", gorm.Expr("NULL"))
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, 0, fmt.Errorf("purge vibration logs: %w", err)
	}
	return checked, updated, nil
}
