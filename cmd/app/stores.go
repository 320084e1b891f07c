package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/config"
	"github.com/wichananm65/fireworks-shop/internal/database"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/order"
	"github.com/wichananm65/fireworks-shop/internal/product"
	"github.com/wichananm65/fireworks-shop/internal/user"
)

type stores struct {
	db         *sqlx.DB
	identities identity.Repository
	users      user.Repository
	products   product.Repository
	orders     order.Repository
}

// openStores connects and migrates Postgres when DATABASE_URL is set and
// falls back to in-memory repositories otherwise.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if !cfg.UseDatabase() {
		logrus.Warn("DATABASE_URL is not set, using in-memory stores")
		return memoryStores(), nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	logrus.Info("migration successfully!!")

	return &stores{
		db:         db,
		identities: identity.NewPostgresRepository(db),
		users:      user.NewPostgresRepository(db),
		products:   product.NewPostgresRepository(db),
		orders:     order.NewPostgresRepository(db),
	}, nil
}

func memoryStores() *stores {
	return &stores{
		identities: identity.NewInMemoryRepository(nil),
		users:      user.NewInMemoryRepository(nil),
		products:   product.NewInMemoryRepository(nil),
		orders:     order.NewInMemoryRepository(nil),
	}
}

func (s *stores) close() {
	if s.db != nil {
		s.db.Close()
	}
}
