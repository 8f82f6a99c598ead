// Package models holds the persisted server-side data structures.
package models

import "time"

// User is an identity record. SecretQuota and RequestQuota are live
// counters seeded from the plan table at registration; both are kept
// non-negative by conditional updates in the users repository.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	HasPaid             bool
	SecretQuota         int
	RequestQuota        int
	SubscriptionStart   time.Time
	SubscriptionExpires time.Time
	CreatedAt           time.Time
}
