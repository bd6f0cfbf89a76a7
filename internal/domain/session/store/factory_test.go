package store

import (
	"context"
	"testing"

	"fitnessai-client-go/internal/domain/session/model"
)

func TestFactoryMemory(t *testing.T) {
	s, err := New(Config{Driver: DriverMemory}, Dependencies{})
	if err != nil {
		t.Fatalf("New memory store: %v", err)
	}
	defer s.Close(context.Background())
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	s, err := New(Config{}, Dependencies{})
	if err != nil {
		t.Fatalf("New default store: %v", err)
	}
	defer s.Close(context.Background())
}

func TestFactorySQLite(t *testing.T) {
	db := newTestSQLiteDB(t)

	s, err := New(Config{Driver: DriverSQLite}, Dependencies{SQLiteDB: db})
	if err != nil {
		t.Fatalf("New sqlite store: %v", err)
	}
	defer s.Close(context.Background())

	if err := s.Save(context.Background(), model.Credentials{AccessToken: "T", RefreshToken: "R"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
}

func TestFactorySQLiteRequiresHandle(t *testing.T) {
	if _, err := New(Config{Driver: DriverSQLite}, Dependencies{}); err == nil {
		t.Fatalf("expected error without database handle")
	}
}

func TestFactoryUnsupported(t *testing.T) {
	if _, err := New(Config{Driver: "unknown"}, Dependencies{}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
