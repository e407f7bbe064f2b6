// Package storetest opens throwaway SQLite-backed stores and seeds fixtures.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"skillcheck/models"
	"skillcheck/store"
)

// Open returns a migrated store backed by a private in-memory database.
func Open(tb testing.TB) *store.GormStore {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { sqlDB.Close() })

	s := store.New(db)
	if err := s.AutoMigrate(); err != nil {
		tb.Fatalf("auto-migrate: %v", err)
	}
	return s
}

func SeedUser(tb testing.TB, s *store.GormStore, username, role string) *models.User {
	tb.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	if err := s.DB().WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSkill(tb testing.TB, s *store.GormStore, name string) *models.Skill {
	tb.Helper()
	sk := &models.Skill{Name: name}
	if err := s.CreateSkill(context.Background(), sk); err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return sk
}

// SeedQuestions creates one question per correct option, in order.
func SeedQuestions(tb testing.TB, s *store.GormStore, skillID uint, correct ...models.Option) []models.Question {
	tb.Helper()
	out := make([]models.Question, 0, len(correct))
	for i, c := range correct {
		q := &models.Question{
			SkillID:       skillID,
			QuestionText:  fmt.Sprintf("question %d of skill %d", i+1, skillID),
			OptionA:       "alpha",
			OptionB:       "bravo",
			OptionC:       "charlie",
			OptionD:       "delta",
			CorrectOption: c,
			Difficulty:    models.DifficultyMedium,
		}
		if err := s.CreateQuestion(context.Background(), q); err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		out = append(out, *q)
	}
	return out
}

// SeedAttempt inserts an attempt without answers at the given time.
func SeedAttempt(tb testing.TB, s *store.GormStore, userID, skillID uint, score int, at time.Time) *models.QuizAttempt {
	tb.Helper()
	a := &models.QuizAttempt{
		UserID:         userID,
		SkillID:        skillID,
		Score:          score,
		TotalQuestions: 10,
		CompletedAt:    at.UTC(),
	}
	if err := s.InsertAttempt(context.Background(), a, nil); err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}
