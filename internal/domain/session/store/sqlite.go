package store

import (
	"context"
	"errors"
	"fmt"

	"fitnessai-client-go/internal/domain/session/model"
	"fitnessai-client-go/internal/platform/storage"

	"gorm.io/gorm"
)

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite builds a SQLite-backed store over an opened database handle.
func NewSQLite(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Save(ctx context.Context, creds model.Credentials) error {
	// Delete-then-create inside one transaction keeps the pair atomic
	// from any reader's perspective.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", storage.CredentialKey).Delete(&storage.CredentialRecord{}).Error; err != nil {
			return err
		}
		record := &storage.CredentialRecord{
			Key:          storage.CredentialKey,
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
		}
		return tx.Create(record).Error
	})
}

func (s *sqliteStore) Load(ctx context.Context) (model.Credentials, bool, error) {
	var record storage.CredentialRecord
	err := s.db.WithContext(ctx).Where("key = ?", storage.CredentialKey).First(&record).Error
	if errorsIsNotFound(err) {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, err
	}
	creds := model.Credentials{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
	}
	if !creds.Complete() {
		return model.Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("key = ?", storage.CredentialKey).Delete(&storage.CredentialRecord{}).Error
}

func (s *sqliteStore) DeviceState(ctx context.Context) (model.DeviceState, error) {
	var record storage.DeviceStateRecord
	err := s.db.WithContext(ctx).Where("key = ?", storage.DeviceStateKey).First(&record).Error
	if errorsIsNotFound(err) {
		return model.DeviceState{}, nil
	}
	if err != nil {
		return model.DeviceState{}, err
	}
	return model.DeviceState{
		DeviceID:       record.DeviceID,
		PushIdentifier: record.PushIdentifier,
		PushRegistered: record.PushRegistered,
	}, nil
}

func (s *sqliteStore) SaveDeviceState(ctx context.Context, state model.DeviceState) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", storage.DeviceStateKey).Delete(&storage.DeviceStateRecord{}).Error; err != nil {
			return err
		}
		record := &storage.DeviceStateRecord{
			Key:            storage.DeviceStateKey,
			DeviceID:       state.DeviceID,
			PushIdentifier: state.PushIdentifier,
			PushRegistered: state.PushRegistered,
		}
		return tx.Create(record).Error
	})
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}

func errorsIsNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}
