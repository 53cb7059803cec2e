// Package service holds the business-logic layer between HTTP handlers and
// the data/adapters layers.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// RoleResolverConfig tunes the role cache.
type RoleResolverConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultRoleResolverConfig returns the default cache settings.
func DefaultRoleResolverConfig() RoleResolverConfig {
	return RoleResolverConfig{CacheSize: 1024, CacheTTL: 5 * time.Minute}
}

// RoleResolverOptions groups dependencies for RoleResolverService.
type RoleResolverOptions struct {
	Store  ports.RoleStore
	Config RoleResolverConfig
	Logger *slog.Logger // Optional
}

// RoleResolverService resolves an identity's role from its Role Document.
// A missing document resolves to the base user role without writing anything,
// and any read failure degrades to the user role rather than erroring out.
type RoleResolverService struct {
	store  ports.RoleStore
	cache  *expirable.LRU[string, domainauth.Role]
	group  singleflight.Group
	logger *slog.Logger
}

// NewRoleResolverService constructs a new RoleResolverService.
func NewRoleResolverService(opts RoleResolverOptions) *RoleResolverService {
	if opts.Store == nil {
		panic("role resolver requires a role store")
	}
	cfg := opts.Config
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultRoleResolverConfig().CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultRoleResolverConfig().CacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolverService{
		store:  opts.Store,
		cache:  expirable.NewLRU[string, domainauth.Role](cfg.CacheSize, nil, cfg.CacheTTL),
		logger: logger.With("component", "role_resolver"),
	}
}

var _ ports.RoleResolver = (*RoleResolverService)(nil)

// Resolve returns the role held by userID. It never returns an error: absent
// documents and failed reads both resolve to the base user role.
func (s *RoleResolverService) Resolve(ctx context.Context, userID string) domainauth.Role {
	if userID == "" {
		return domainauth.RoleUser
	}

	if role, ok := s.cache.Get(userID); ok {
		return role
	}

	// Concurrent misses for the same identity collapse into one store read.
	v, _, _ := s.group.Do(userID, func() (any, error) {
		return s.resolveFromStore(ctx, userID), nil
	})
	role, ok := v.(domainauth.Role)
	if !ok {
		return domainauth.RoleUser
	}
	return role
}

func (s *RoleResolverService) resolveFromStore(ctx context.Context, userID string) domainauth.Role {
	doc, err := s.store.GetDocument(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// No document yet. Resolution never provisions one.
			s.cache.Add(userID, domainauth.RoleUser)
			return domainauth.RoleUser
		}
		// Transient failures are not cached so a recovered store is picked
		// up on the next resolution.
		s.logger.WarnContext(ctx, "role resolution failed, defaulting to user", "user_id", userID, "err", err)
		return domainauth.RoleUser
	}

	role := doc.Role
	if !role.Valid() {
		s.logger.WarnContext(ctx, "role document holds unknown role, defaulting to user", "user_id", userID, "role", string(doc.Role))
		role = domainauth.RoleUser
	}

	s.cache.Add(userID, role)
	return role
}

// Invalidate drops the cached role for userID, forcing the next Resolve to
// hit the store. Called after Role Document provisioning.
func (s *RoleResolverService) Invalidate(userID string) {
	s.group.Forget(userID)
	s.cache.Remove(userID)
}
