package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DoyleJ11/hanabi-table/internal/table"
)

var ErrNoSession = errors.New("result has no session id")

const recordTimeout = 5 * time.Second

// Result is one finished game as this client saw it.
type Result struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID  string    `gorm:"index;not null"`
	Score      float64
	Message    string
	FinishedAt time.Time `gorm:"not null"`
}

func (Result) TableName() string { return "game_results" }

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to Postgres and migrates the results table.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := db.AutoMigrate(&Result{}); err != nil {
		return nil, fmt.Errorf("migrate results: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Record(ctx context.Context, r Result) error {
	r, err := prepare(r, time.Now())
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *Store) BySession(ctx context.Context, sessionID string) ([]Result, error) {
	var out []Result
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("finished_at").
		Find(&out).Error
	return out, err
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Hook records every scored game end. The table runs it off its loop and
// waits for it on shutdown, so each write is bounded by recordTimeout.
func (s *Store) Hook(ctx context.Context) table.GameEndFunc {
	return func(sessionID string, score float64, message string) {
		rctx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()
		err := s.Record(rctx, Result{SessionID: sessionID, Score: score, Message: message})
		if err != nil {
			s.log.Warn("result not recorded", zap.String("session", sessionID), zap.Error(err))
			return
		}
		s.log.Info("result recorded", zap.String("session", sessionID), zap.Float64("score", score))
	}
}

func prepare(r Result, now time.Time) (Result, error) {
	if r.SessionID == "" {
		return r, ErrNoSession
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = now.UTC()
	}
	return r, nil
}
