package cart

import (
	"fmt"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Direction is a quantity step requested from the cart screen.
// The values double as the backend "action" field.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// IsValid checks if the direction is recognized
func (d Direction) IsValid() bool {
	return d == Increase || d == Decrease
}

// ParseDirection converts a path or form value into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("unknown quantity action %q", s))
	}
	return d, nil
}

// Line is one product in the cart with a denormalized display snapshot
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// recalculate derives the line total from the current price and quantity
func (l *Line) recalculate() {
	l.Total = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the set of lines plus the derived cart total.
// Total always equals the sum of line totals.
type Cart struct {
	Lines []Line          `json:"products"`
	Total decimal.Decimal `json:"cartTotal"`
}

// New creates a cart from lines, normalizing quantities and totals
func New(lines ...Line) Cart {
	c := Cart{Lines: make([]Line, 0, len(lines))}
	c.Lines = append(c.Lines, lines...)
	c.Normalize()
	return c
}

// Empty returns a cart with no lines and a zero total
func Empty() Cart {
	return Cart{Lines: []Line{}, Total: decimal.Zero}
}

// Normalize enforces the cart invariants on data received from elsewhere:
// quantities below one count as one, and every total is recomputed from
// price and quantity rather than trusted.
func (c *Cart) Normalize() {
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	for i := range c.Lines {
		if c.Lines[i].Quantity < 1 {
			c.Lines[i].Quantity = 1
		}
		c.Lines[i].recalculate()
	}
	c.recalculateTotal()
}

func (c *Cart) recalculateTotal() {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total)
	}
	c.Total = total
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Line returns the line for productID
func (c Cart) Line(productID string) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// UpdateQuantity steps the quantity of a line by one.
// Decrease never goes below one; changed is false when the step was a no-op.
func (c *Cart) UpdateQuantity(productID string, dir Direction) (changed bool, err error) {
	if !dir.IsValid() {
		return false, shared.NewValidationError(fmt.Sprintf("unknown quantity action %q", dir))
	}
	i := c.indexOf(productID)
	if i < 0 {
		return false, shared.NewNotFoundError("Item is not in the cart")
	}

	line := &c.Lines[i]
	switch dir {
	case Increase:
		line.Quantity++
	case Decrease:
		if line.Quantity <= 1 {
			return false, nil
		}
		line.Quantity--
	}
	line.recalculate()
	c.recalculateTotal()
	return true, nil
}

// CanDecrease reports whether a decrease would change the line
func (c Cart) CanDecrease(productID string) bool {
	l, ok := c.Line(productID)
	return ok && l.Quantity > 1
}

// Remove drops the line for productID. It reports whether a line was removed.
func (c *Cart) Remove(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
	c.recalculateTotal()
	return true
}

// Add puts quantity units of a product into the cart, merging with an
// existing line for the same product.
func (c *Cart) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if i := c.indexOf(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		c.Lines[i].recalculate()
	} else {
		line.recalculate()
		c.Lines = append(c.Lines, line)
	}
	c.recalculateTotal()
}

// Count is the number of items in the cart (sum of quantities)
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		q := l.Quantity
		if q < 1 {
			q = 1
		}
		n += q
	}
	return n
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a deep copy safe to hand to other goroutines
func (c Cart) Clone() Cart {
	out := Cart{Lines: make([]Line, len(c.Lines)), Total: c.Total}
	copy(out.Lines, c.Lines)
	return out
}
