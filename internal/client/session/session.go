// Package session owns the bearer token: it persists it in the local
// metadata store and decodes the roles it carries.
//
// Tokens are decoded without signature or expiry verification. The backend
// is the only authority on validity; the client uses roles for routing only.
//
// The token is read from the database on every call, so a sign-in or
// sign-out by another process sharing the file shows up on the next
// navigation.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/repositories/metadata"
	"github.com/nayidisha/nayidisha-client/internal/dbx"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	TokenKey      = "token"
	SignedInAtKey = "signed_in_at"
)

// Session is safe for concurrent use. One instance is shared by the HTTP
// adapter, the router and the services.
type Session struct {
	db   *sql.DB
	repo metadata.Repository
	log  logging.Logger

	mu sync.RWMutex
}

func New(db *sql.DB, log logging.Logger) *Session {
	return &Session{
		db:   db,
		repo: metadata.NewSQLiteRepository(db),
		log:  log,
	}
}

// Save stores token, replacing any previous one.
func (s *Session) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Login stores token together with the sign-in time.
func (s *Session) Login(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, SignedInAtKey, []byte(now))
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.log.Info(ctx, "signed in", "roles", rolesFromToken(token))
	return nil
}

// Logout forgets the token locally. The backend is not contacted.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, SignedInAtKey)
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Token returns the stored token, if any.
func (s *Session) Token(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read token", "error", err)
		return "", false
	}
	return string(v), len(v) > 0
}

// IsAuthenticated reports token presence only.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// Roles decodes the role names of the stored token. It never fails: a
// missing or undecodable token yields no roles.
func (s *Session) Roles(ctx context.Context) []string {
	token, ok := s.Token(ctx)
	if !ok {
		return []string{}
	}
	claims, err := parseClaims(token)
	if err != nil {
		s.log.Warn(ctx, "failed to decode token", "error", err)
		return []string{}
	}
	return claimRoles(claims)
}

// Expiry returns the token's exp claim, for display.
func (s *Session) Expiry(ctx context.Context) (time.Time, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return time.Time{}, false
	}
	claims, err := parseClaims(token)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the token's sub claim (the account email).
func (s *Session) Subject(ctx context.Context) string {
	token, ok := s.Token(ctx)
	if !ok {
		return ""
	}
	claims, err := parseClaims(token)
	if err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// SignedInAt is the time of the last Login, if recorded.
func (s *Session) SignedInAt(ctx context.Context) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.repo.Get(ctx, SignedInAtKey)
	if err != nil || v == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
