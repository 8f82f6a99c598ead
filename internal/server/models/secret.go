package models

import "time"

// Secret is a vault entry. Value is always the base64-encoded output of the
// crypto envelope's seal operation, never plaintext. Key is chosen by the
// caller and is unique only within one owner's vault.
type Secret struct {
	ID        string
	Key       string
	Value     string
	UserID    string
	CreatedAt time.Time
}

// SecretMetadata is the listing projection of a Secret: everything except
// the value. CreatedBy carries the owner label shown to the caller.
type SecretMetadata struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
