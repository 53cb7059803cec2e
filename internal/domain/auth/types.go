package auth

// Package auth contains domain-level types for identity, roles, and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Exactly two roles exist; admin is the single elevated role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific payloads into this shape. It is
// held transiently for the duration of a session and never persisted.
type Identity struct {
	ID          string // stable unique identifier issued by the provider
	Email       string // optional
	DisplayName string // optional
}

// RoleDocument is the persisted record mapping an identity id to its role.
// It is created exactly once per identity (at sign-up or first federated
// sign-in) and never deleted. The document id is the identity id.
type RoleDocument struct {
	UserID    string    `json:"user_id"    db:"id"`
	Email     string    `json:"email"      db:"email"`
	Role      Role      `json:"role"       db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionCookieName is the transport cookie carrying the opaque provider
// credential. The edge guard keys on its presence only.
const SessionCookieName = "__session"

// SessionTTL is the fixed lifetime of the transport session, independent of
// the underlying credential's own expiry.
const SessionTTL = 14 * 24 * time.Hour

// Session is the server-side record backing the __session cookie.
// Token is the opaque provider credential string used as the record key.
type Session struct {
	Token       string    `json:"token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
