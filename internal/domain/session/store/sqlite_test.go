package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitnessai-client-go/internal/domain/session/model"
	"fitnessai-client-go/internal/platform/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&storage.CredentialRecord{}, &storage.DeviceStateRecord{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestSQLiteStoreCredentialLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(newTestSQLiteDB(t))
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	first := model.Credentials{AccessToken: "T1", RefreshToken: "R1"}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Overwrite replaces both halves in place.
	second := model.Credentials{AccessToken: "T2", RefreshToken: "R2"}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, ok, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !ok || loaded != second {
		t.Fatalf("unexpected credentials: ok=%v %+v", ok, loaded)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok, _ := s.Load(ctx); ok {
		t.Fatalf("expected load to miss after clear")
	}
}

func TestSQLiteStorePartialPairIsAbsent(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(newTestSQLiteDB(t))
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}

	if err := s.Save(ctx, model.Credentials{RefreshToken: "R1"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, ok, err := s.Load(ctx); err != nil || ok {
		t.Fatalf("partial pair must load as absent, got ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreDeviceState(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(newTestSQLiteDB(t))
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}

	want := model.DeviceState{
		DeviceID:       "device-1",
		PushIdentifier: "fcm-token",
		PushRegistered: true,
	}
	if err := s.SaveDeviceState(ctx, want); err != nil {
		t.Fatalf("SaveDeviceState error: %v", err)
	}
	got, err := s.DeviceState(ctx)
	if err != nil {
		t.Fatalf("DeviceState error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected device state: %+v", got)
	}

	// Credentials and device state are independent rows: clearing tokens
	// leaves device state alone.
	if err := s.Save(ctx, model.Credentials{AccessToken: "T1", RefreshToken: "R1"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	got, err = s.DeviceState(ctx)
	if err != nil {
		t.Fatalf("DeviceState error: %v", err)
	}
	if got != want {
		t.Fatalf("device state lost on credential clear: %+v", got)
	}
}
