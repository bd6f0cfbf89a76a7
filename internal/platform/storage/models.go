package storage

import "time"

// Fixed singleton keys. The client holds exactly one credential pair and
// one device state row.
const (
	CredentialKey  = "session"
	DeviceStateKey = "device"
)

// CredentialRecord persists the bearer token pair between launches.
type CredentialRecord struct {
	Key          string `gorm:"primaryKey;size:32"`
	AccessToken  string `gorm:"type:text"`
	RefreshToken string `gorm:"type:text"`
	UpdatedAt    time.Time
}

// DeviceStateRecord persists install-scoped device facts: the generated
// device identifier and whether the current push identifier has been
// registered with the backend.
type DeviceStateRecord struct {
	Key            string `gorm:"primaryKey;size:32"`
	DeviceID       string `gorm:"size:64"`
	PushIdentifier string `gorm:"type:text"`
	PushRegistered bool
	UpdatedAt      time.Time
}
