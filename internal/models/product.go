package models

import "github.com/diewo77/confeitaria/internal/money"

// Product is a catalog entry. ID and CreatedAt are assigned by the store
// and never change afterwards.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Price       money.Amount `json:"price"`
	Description string       `json:"description"`
	Icon        Icon         `json:"icon"`
	Category    string       `json:"category"`
	CreatedAt   int64        `json:"createdAt"`
}

// DefaultCategories seeds the category set the first time the catalog is
// created, before the user has added any of their own.
var DefaultCategories = []string{"Bolos", "Tortas", "Doces", "Cupcakes"}
