package model

import "time"

// Credential holds a stored secret for an external service ("github",
// "classifier").
type Credential struct {
	ID        int64
	Service   string
	Value     string
	UpdatedAt time.Time
}

// Organization is a tracked GitHub organization. Position keeps the configured
// order stable across restarts.
type Organization struct {
	ID       int64
	Login    string
	Position int
	AddedAt  time.Time
}
