package entity

import "time"

// DisplayToken is one QR code instance shown on the station screen.
// Tokens are never mutated; a new one supersedes the previous every ValidFor.
type DisplayToken struct {
	Value     string        `json:"value"`
	IssuedAt  time.Time     `json:"issuedAt"`
	ExpiresAt Timestamp     `json:"expiresAt"`
	ValidFor  time.Duration `json:"-"`
}
