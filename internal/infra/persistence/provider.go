// Package persistence selects the document store backend from configuration
// and exposes the domain repositories over it.
package persistence

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/repository"
	fsrepo "storefront/internal/infra/persistence/firestore"
	"storefront/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the repository provider.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// RepositorySet bundles every repository the store backend provides.
type RepositorySet struct {
	fx.Out

	Users  repository.UserProfileRepository
	Carts  repository.CartRepository
	Orders repository.OrderRepository
}

// NewRepositories builds the repositories for the configured store provider.
// The hosted document store is the default; the memory provider serves local
// development without credentials.
func NewRepositories(params Params) (RepositorySet, error) {
	provider := constants.StoreProviderFirestore
	if params.Config.Store != nil && params.Config.Store.Provider != "" {
		provider = params.Config.Store.Provider
	}

	switch provider {
	case constants.StoreProviderMemory:
		params.Logger.Info("Using in-memory document store")
		store := memory.NewStore()

		return RepositorySet{
			Users:  store.Users(),
			Carts:  store.Carts(),
			Orders: store.Orders(),
		}, nil

	case constants.StoreProviderFirestore:
		client, err := fsrepo.NewClient(params.Ctx, params.Config)
		if err != nil {
			return RepositorySet{}, err
		}

		params.Append(fx.Hook{
			OnStop: func(context.Context) error {
				params.Logger.Info("Closing document store connection")

				return client.Close()
			},
		})

		return RepositorySet{
			Users:  fsrepo.NewUserProfileRepository(client, params.Config),
			Carts:  fsrepo.NewCartRepository(client, params.Config),
			Orders: fsrepo.NewOrderRepository(client, params.Config),
		}, nil

	default:
		return RepositorySet{}, errors.Errorf("unknown store provider: %s", provider)
	}
}
