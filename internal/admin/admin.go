// Package admin holds maintenance operations run from the command line.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/kickelo/kickelo/internal/matches"
	"github.com/kickelo/kickelo/internal/players"
	"github.com/kickelo/kickelo/internal/session"
)

// Snapshot is a point-in-time copy of the store in its read-side shape.
type Snapshot struct {
	CreatedAt time.Time        `json:"createdAt"`
	Players   []players.Player `json:"players"`
	Matches   []matches.Match  `json:"matches"`
	Session   session.Response `json:"session"`
}

// Backup writes an indented JSON snapshot of players, matches and the session.
func Backup(ctx context.Context, d *gorm.DB, w io.Writer, now time.Time) (Snapshot, error) {
	ps, err := players.NewRepository(d).List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list players: %w", err)
	}
	ms, err := matches.NewRepository(d).List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list matches: %w", err)
	}
	s, err := session.NewRepository(d).GetOrCreate(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		CreatedAt: now.UTC(),
		Players:   ps,
		Matches:   matches.ToAPIList(ms),
		Session:   session.ToAPI(s),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return Snapshot{}, fmt.Errorf("write backup: %w", err)
	}
	slog.InfoContext(ctx, "backup written",
		"players", len(snap.Players), "matches", len(snap.Matches))
	return snap, nil
}

// PurgeVibrationLogs drops stored vibration logs from every match.
func PurgeVibrationLogs(ctx context.Context, d *gorm.DB) (checked, updated int64, err error) {
	checked, updated, err = matches.NewRepository(d).PurgeVibrationLogs(ctx)
	if err != nil {
		return 0, 0, err
	}
	slog.InfoContext(ctx, "vibration logs purged", "checked", checked, "updated", updated)
	return checked, updated, nil
}
