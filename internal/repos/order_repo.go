package repos

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a placed order.
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO orders
	    (id, origin, username, customer_name, customer_email, address, items_json, total, created_at)
	  VALUES
	    (:id, :origin, :username, :customer_name, :customer_email, :address, :items_json, :total, CURRENT_TIMESTAMP)
	`, o)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT id, origin, COALESCE(username,'') AS username, customer_name, customer_email,
		       address, items_json, total, created_at
		FROM orders
		WHERE id = ?
	`, orderID)
	return o, err
}

// ListByOrigin returns the orders one browser placed, newest first.
func (r *OrderRepo) ListByOrigin(origin string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, origin, COALESCE(username,'') AS username, customer_name, customer_email,
		       address, items_json, total, created_at
		FROM orders
		WHERE origin = ?
		ORDER BY datetime(created_at) DESC
	`, origin)
	return out, err
}
