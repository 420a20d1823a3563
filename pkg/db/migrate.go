package db

import (
	"fmt"

	"github.com/elorielabs/elorie-backend/pkg/db/models"
)

// AutoMigrate creates or updates the schema for every registered
// model. Gated behind ELORIE_AUTO_MIGRATE; production schemas are
// managed out of band.
func (c *Client) AutoMigrate() error {
	err := c.conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartEntry{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("running auto-migration: %w", err)
	}
	return nil
}
