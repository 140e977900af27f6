package services

import (
	"context"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
)

// AuthService picks the mock actor the CLI acts as.
//
// Contract:
//   - SignIn: simulated provider sign-in (email, facebook, x).
//   - Switch: act as a specific actor id.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	SignIn(ctx context.Context, provider string) (catalog.Actor, error)
	Switch(ctx context.Context, actorID string) (catalog.Actor, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *Session
}

func NewAuthService(c client.Client, session *Session) AuthService {
	return &authService{client: c, session: session}
}

func (a *authService) SignIn(ctx context.Context, provider string) (catalog.Actor, error) {
	actor, err := a.client.SignIn(ctx, provider, "")
	if err != nil {
		return catalog.Actor{}, err
	}
	a.session.set(actor)
	return actor, nil
}

func (a *authService) Switch(ctx context.Context, actorID string) (catalog.Actor, error) {
	actor, err := a.client.SignIn(ctx, "", actorID)
	if err != nil {
		return catalog.Actor{}, err
	}
	a.session.set(actor)
	return actor, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
