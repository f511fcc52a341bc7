// Package store persists finished drafts as match records.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/draftarena/tcg-draft-backend/internal/engine"
	"github.com/draftarena/tcg-draft-backend/pkg/types"
)

// MatchRecord is the durable snapshot of one finished draft.
type MatchRecord struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	RoomID    string `gorm:"uniqueIndex;size:12" json:"roomId"`
	DraftType string `json:"draftType"`

	BlueName       string `json:"blueName"`
	RedName        string `json:"redName"`
	BlueUserID     string `json:"-"`
	RedUserID      string `json:"-"`
	BlueExternalID string `json:"blueExternalId,omitempty"`
	RedExternalID  string `json:"redExternalId,omitempty"`

	Bans         datatypes.JSON `json:"bans"`
	BluePicks    datatypes.JSON `json:"bluePicks"`
	RedPicks     datatypes.JSON `json:"redPicks"`
	ImmunityPool datatypes.JSON `json:"immunityPool"`
	ImmunityBans datatypes.JSON `json:"immunityBans"`

	Results   datatypes.JSON `json:"results"`
	BlueScore int            `json:"blueScore"`
	RedScore  int            `json:"redScore"`

	CreatedAt time.Time `json:"date"`
}

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// AutoMigrate creates the match table.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&MatchRecord{})
}

// SaveMatch inserts the record once per room; a second save for the same
// room is a no-op.
func (s *Store) SaveMatch(ctx context.Context, rec *MatchRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoNothing: true,
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("save match %s: %w", rec.RoomID, err)
	}
	return nil
}

// UpdateResults rewrites the best-of-N tally on an already saved record.
func (s *Store) UpdateResults(ctx context.Context, roomID string, results []types.GameResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	blue, red := Score(results)
	err = s.db.WithContext(ctx).
		Model(&MatchRecord{}).
		Where("room_id = ?", roomID).
		Updates(map[string]any{
			"results":    datatypes.JSON(raw),
			"blue_score": blue,
			"red_score":  red,
		}).Error
	if err != nil {
		return fmt.Errorf("update results %s: %w", roomID, err)
	}
	return nil
}

// PruneOldest removes records beyond keep, oldest first.
func (s *Store) PruneOldest(ctx context.Context, keep int) error {
	sub := s.db.Model(&MatchRecord{}).Select("id").Order("id DESC").Limit(keep)
	err := s.db.WithContext(ctx).
		Where("id NOT IN (?)", sub).
		Delete(&MatchRecord{}).Error
	if err != nil {
		return fmt.Errorf("prune matches: %w", err)
	}
	return nil
}

// Recent lists the newest records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	var out []MatchRecord
	err := s.db.WithContext(ctx).
		Order("id DESC").Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

// Score tallies per-game winners into an aggregate blue/red score.
func Score(results []types.GameResult) (blue, red int) {
	for _, r := range results {
		switch r.Winner {
		case "blue":
			blue++
		case "red":
			red++
		}
	}
	return blue, red
}

// Record flattens a finished session into its durable form.
func Record(s engine.Session) *MatchRecord {
	bans := make([]types.BanEntry, len(s.Bans))
	for i, b := range s.Bans {
		bans[i] = types.BanEntry{ID: b.ID, Team: string(b.Team), Immunity: b.Immunity}
	}
	blue, red := Score(s.Results[:])
	return &MatchRecord{
		RoomID:         s.Room,
		DraftType:      s.Mode.Name,
		BlueName:       s.Blue.Name,
		RedName:        s.Red.Name,
		BlueUserID:     s.Blue.UserID,
		RedUserID:      s.Red.UserID,
		BlueExternalID: s.Blue.ExternalID,
		RedExternalID:  s.Red.ExternalID,
		Bans:           mustJSON(bans),
		BluePicks:      mustJSON(orEmpty(s.BluePicks)),
		RedPicks:       mustJSON(orEmpty(s.RedPicks)),
		ImmunityPool:   mustJSON(orEmpty(s.ImmunityPool)),
		ImmunityBans:   mustJSON(orEmpty(s.ImmunityBans)),
		Results:        mustJSON(s.Results[:]),
		BlueScore:      blue,
		RedScore:       red,
	}
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		// All inputs are plain slices of strings/structs; this cannot fail.
		panic(err)
	}
	return datatypes.JSON(raw)
}
