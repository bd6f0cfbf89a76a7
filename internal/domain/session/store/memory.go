package store

import (
	"context"
	"sync"

	"fitnessai-client-go/internal/domain/session/model"
)

type memoryStore struct {
	mutex  sync.RWMutex
	creds  model.Credentials
	has    bool
	device model.DeviceState
}

// NewMemory builds an in-memory store. State does not survive a restart;
// intended for tests and throwaway sessions.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Save(_ context.Context, creds model.Credentials) error {
	s.mutex.Lock()
	s.creds = creds
	s.has = true
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Load(_ context.Context) (model.Credentials, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.has || !s.creds.Complete() {
		return model.Credentials{}, false, nil
	}
	return s.creds, true, nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	s.creds = model.Credentials{}
	s.has = false
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) DeviceState(_ context.Context) (model.DeviceState, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.device, nil
}

func (s *memoryStore) SaveDeviceState(_ context.Context, state model.DeviceState) error {
	s.mutex.Lock()
	s.device = state
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
