package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/assets"
	"github.com/youyuhsuan/designare/identity"
	"github.com/youyuhsuan/designare/internal/config"
	"github.com/youyuhsuan/designare/internal/firebase"
	"github.com/youyuhsuan/designare/projects"
	"github.com/youyuhsuan/designare/server"
	"github.com/youyuhsuan/designare/sessions"
	"github.com/youyuhsuan/designare/token"
	"github.com/youyuhsuan/designare/users"
	fakeuserrepo "github.com/youyuhsuan/designare/users/repofake"
)

// buildDeps connects the configured backends. The returned func releases them.
func buildDeps(ctx context.Context, c *config.Settings) (server.Deps, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("failed to close backend")
			}
		}
	}
	fail := func(err error) (server.Deps, func(), error) {
		closeAll()
		return server.Deps{}, func() {}, err
	}

	var fs *firestore.Client
	if c.GetFirebaseProjectID() != "" {
		client, err := firebase.NewFirestoreClient(ctx, c)
		if err != nil {
			return fail(err)
		}
		fs = client
		closers = append(closers, client.Close)
	}

	var (
		userRepo    users.UserRepo = fakeuserrepo.NewFakeUserRepo()
		projectRepo projects.Repo  = projects.NewMemoryRepo()
		assetRepo   assets.Repo    = assets.NewMemoryRepo()
		ping        func(context.Context) error
	)
	if fs != nil {
		userRepo = users.NewFirestoreRepo(fs)
		projectRepo = projects.NewFirestoreRepo(fs)
		assetRepo = assets.NewFirestoreRepo(fs)
	} else {
		log.Warn().Msg("no Firebase project configured; users, projects and assets are kept in memory")
	}

	var backend sessions.Backend
	switch c.GetStoreBackend() {
	case config.StoreFirestore:
		if fs == nil {
			return fail(fmt.Errorf("firestore session store needs FIREBASE_PROJECT_ID"))
		}
		backend = sessions.NewFirestoreBackend(fs)
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
		})
		closers = append(closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("redis ping %s: %w", c.GetRedisAddr(), err))
		}
		backend = sessions.NewRedisBackend(rdb, c.GetRefreshTokenTTL())
		ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		backend = sessions.NewMemoryBackend()
	}
	log.Info().Str("backend", string(c.GetStoreBackend())).Msg("session store ready")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	issuer := token.NewIssuer(c)
	verifier := token.NewVerifier(c)
	manager := sessions.NewManager(sessions.NewKeyedStore(backend), issuer, verifier,
		sessions.WithMetrics(sessions.NewMetrics(registry)),
		sessions.WithRevokeOnEnd(c.GetRevokeOnLogout()),
	)

	var provider identity.Provider
	switch c.GetIdentityProvider() {
	case config.IdentityFirebase:
		provider = identity.NewFirebaseProvider(c.GetFirebaseAPIKey())
	default:
		provider = identity.NewLocalProvider(userRepo)
	}

	deps := server.Deps{
		Sessions: manager,
		Access:   verifier,
		Identity: provider,
		Projects: projectRepo,
		Assets:   assetRepo,
		Registry: registry,
		Ping:     ping,
	}
	if issuerURL := c.GetOIDCIssuer(); issuerURL != "" {
		idTokens, err := identity.DiscoverOIDCVerifier(ctx, issuerURL, c.GetOIDCClientID(), identity.WithUserLinking(userRepo))
		if err != nil {
			return fail(err)
		}
		deps.IDTokens = idTokens
	}
	return deps, closeAll, nil
}
