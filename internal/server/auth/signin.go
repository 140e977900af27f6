package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/logging"
)

// ActorDirectory resolves mock actors. *catalog.Catalog satisfies it.
type ActorDirectory interface {
	Actor(id string) (catalog.Actor, error)
	ActorByProvider(provider string) catalog.Actor
}

// Service performs the simulated sign-in: no credentials are checked, the
// provider (or an explicit actor id) just picks one of the mock actors.
type Service struct {
	actors   ActorDirectory
	secret   []byte
	tokenTTL time.Duration
	logger   logging.Logger
}

func NewService(actors ActorDirectory, secret string, tokenTTL time.Duration, logger logging.Logger) *Service {
	return &Service{
		actors:   actors,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger.With("module", "auth"),
	}
}

// SignIn returns the chosen actor and an access token for it.
func (s *Service) SignIn(ctx context.Context, provider, actorID string) (catalog.Actor, string, error) {
	var actor catalog.Actor
	if actorID != "" {
		a, err := s.actors.Actor(actorID)
		if err != nil {
			return catalog.Actor{}, "", err
		}
		actor = a
	} else {
		actor = s.actors.ActorByProvider(provider)
	}

	token, err := GenerateToken(actor.ID, s.secret, s.tokenTTL)
	if err != nil {
		return catalog.Actor{}, "", fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info(ctx, "signed in", "actor_id", actor.ID, "provider", provider)
	return actor, token, nil
}

// Authenticate returns the actor id carried by a valid token.
func (s *Service) Authenticate(token string) (string, error) {
	return GetActorIDFromToken(token, s.secret)
}
