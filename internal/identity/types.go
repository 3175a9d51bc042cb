package identity

import "time"

// SystemUserID is the sentinel identity that AI-generated or anonymous
// content is attributed to. The row is guaranteed by the seed migration.
const SystemUserID = "0000000000000000000000000"

// User is a player profile. ExternalUID is the id assigned by the external
// auth provider the client authenticates against.
type User struct {
	ID          string     `json:"id"`
	ExternalUID string     `json:"firebaseUid"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Image       string     `json:"image,omitempty"`
	Location    string     `json:"location,omitempty"`
	IPAddress   string     `json:"-"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateRequest registers a new externally-authenticated user.
type CreateRequest struct {
	ExternalUID string `json:"uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Birthday    string `json:"birthday"`
	IP          string `json:"ip"`
	Location    string `json:"location"`
}

// SyncRequest upserts profile fields for an existing or new user.
type SyncRequest struct {
	ExternalUID string `json:"uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Location    string `json:"location"`
}
