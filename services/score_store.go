// services/score_store.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"minesweeper-service/game"
	"minesweeper-service/models"
	"minesweeper-service/utils"

	"gorm.io/gorm"
)

// ScoreStore keeps finished games per difficulty.
type ScoreStore interface {
	Append(ctx context.Context, difficulty, playerID string, rec game.Record) (models.ScoreRecord, error)
	// List returns the records of a difficulty, fastest first.
	List(ctx context.Context, difficulty string) ([]models.ScoreRecord, error)
	Remove(ctx context.Context, difficulty, id string) error
	ClearAll(ctx context.Context) error
	Snapshot(ctx context.Context) (ScoreSnapshot, error)
}

// ScoreEntry is a record in the blob layout.
type ScoreEntry struct {
	ID   string    `json:"id"`
	Time *int64    `json:"time"`
	Date time.Time `json:"date"`
}

// ScoreSnapshot is the whole store keyed by difficulty, e.g.
// {"easy":[{"id":"…","time":5321,"date":"…"}],"normal":[],"hard":[]}.
type ScoreSnapshot map[string][]ScoreEntry

func newScoreSnapshot() ScoreSnapshot {
	snap := make(ScoreSnapshot, len(game.Presets))
	for _, p := range game.Presets {
		snap[p.Name] = []ScoreEntry{}
	}
	return snap
}

func entryOf(r models.ScoreRecord) ScoreEntry {
	return ScoreEntry{ID: r.ID, Time: r.ElapsedMS, Date: r.Date}
}

func (e ScoreEntry) record(difficulty string) models.ScoreRecord {
	return models.ScoreRecord{ID: e.ID, Difficulty: difficulty, ElapsedMS: e.Time, Date: e.Date}
}

// GormScoreStore keeps records in the score_records table.
type GormScoreStore struct {
	DB *gorm.DB
}

func NewGormScoreStore(db *gorm.DB) *GormScoreStore {
	return &GormScoreStore{DB: db}
}

func (s *GormScoreStore) Append(ctx context.Context, difficulty, playerID string, rec game.Record) (models.ScoreRecord, error) {
	record := models.NewScoreRecord(difficulty, playerID, rec)
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return models.ScoreRecord{}, fmt.Errorf("failed to save score: %w", err)
	}
	return record, nil
}

func (s *GormScoreStore) List(ctx context.Context, difficulty string) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	if err := s.DB.WithContext(ctx).
		Where("difficulty = ?", difficulty).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	models.SortScores(records)
	return records, nil
}

func (s *GormScoreStore) Remove(ctx context.Context, difficulty, id string) error {
	res := s.DB.WithContext(ctx).
		Where("difficulty = ? AND id = ?", difficulty, id).
		Delete(&models.ScoreRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove score: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormScoreStore) ClearAll(ctx context.Context) error {
	err := s.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ScoreRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear scores: %w", err)
	}
	return nil
}

func (s *GormScoreStore) Snapshot(ctx context.Context) (ScoreSnapshot, error) {
	var records []models.ScoreRecord
	if err := s.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	models.SortScores(records)

	snap := newScoreSnapshot()
	for _, r := range records {
		snap[r.Difficulty] = append(snap[r.Difficulty], entryOf(r))
	}
	return snap, nil
}

// BlobScoreStore keeps the whole store as one JSON object in R2. Writes
// are serialized within the process; concurrent writers in other processes
// are not coordinated.
type BlobScoreStore struct {
	objects *utils.ObjectStore
	key     string
	mu      sync.Mutex
}

func NewBlobScoreStore(objects *utils.ObjectStore, key string) *BlobScoreStore {
	return &BlobScoreStore{objects: objects, key: key}
}

func (s *BlobScoreStore) load(ctx context.Context) (ScoreSnapshot, error) {
	snap := newScoreSnapshot()
	err := s.objects.GetJSON(ctx, s.key, &snap)
	if errors.Is(err, utils.ErrObjectNotFound) {
		return newScoreSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *BlobScoreStore) Append(ctx context.Context, difficulty, playerID string, rec game.Record) (models.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return models.ScoreRecord{}, err
	}
	record := models.NewScoreRecord(difficulty, playerID, rec)
	snap[difficulty] = append(snap[difficulty], entryOf(record))
	if err := s.objects.PutJSON(ctx, s.key, snap); err != nil {
		return models.ScoreRecord{}, err
	}
	return record, nil
}

func (s *BlobScoreStore) List(ctx context.Context, difficulty string) ([]models.ScoreRecord, error) {
	s.mu.Lock()
	snap, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	records := make([]models.ScoreRecord, 0, len(snap[difficulty]))
	for _, e := range snap[difficulty] {
		records = append(records, e.record(difficulty))
	}
	models.SortScores(records)
	return records, nil
}

func (s *BlobScoreStore) Remove(ctx context.Context, difficulty, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries := snap[difficulty]
	for i, e := range entries {
		if e.ID != id {
			continue
		}
		snap[difficulty] = append(entries[:i:i], entries[i+1:]...)
		return s.objects.PutJSON(ctx, s.key, snap)
	}
	return ErrRecordNotFound
}

func (s *BlobScoreStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Delete(ctx, s.key)
}

func (s *BlobScoreStore) Snapshot(ctx context.Context) (ScoreSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}
