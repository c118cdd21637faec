// Package menu keeps the restaurant's menu catalog: item CRUD, category
// filtering, and drafts that accept image uploads while being edited.
package menu

import (
	"fmt"
	"strings"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/validate"
	"github.com/shopspring/decimal"
)

// Errors returned by the menu manager.
var (
	ErrInvalidPrice   = fmt.Errorf("%w: price must be a number", apperr.ErrValidation)
	ErrNegativePrice  = fmt.Errorf("%w: price must be >= 0", apperr.ErrValidation)
	ErrPricePrecision = fmt.Errorf("%w: price has more than 2 decimal places", apperr.ErrValidation)
	ErrItemNotFound   = fmt.Errorf("menu item %w", apperr.ErrNotFound)
)

// Item is a menu catalog entry.
type Item struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
}

// Fields is the operator-editable content of an item, as typed into the form.
// Price stays text until it is validated.
type Fields struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required,max=50"`
	Image       string `json:"image" validate:"omitempty,datauri"`
}

// FieldsOf returns the editable fields of an existing item.
func FieldsOf(it Item) Fields {
	return Fields{
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.StringFixed(2),
		Category:    it.Category,
		Image:       it.Image,
	}
}

// build validates f and returns the item it describes, without an id.
func (f Fields) build() (Item, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)

	if err := validate.Struct(f); err != nil {
		return Item{}, err
	}
	price, err := ParsePrice(f.Price)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Category:    f.Category,
		Image:       f.Image,
	}, nil
}

// ParsePrice parses operator-entered price text as a non-negative amount
// with at most two decimal places.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrNegativePrice
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, ErrPricePrecision
	}
	return d, nil
}
