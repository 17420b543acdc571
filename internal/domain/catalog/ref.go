package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ProductRef is a product reference as embedded in cart, wishlist and
// order payloads. The backend sends either the bare id or, when the
// relation is populated, the whole product document.
type ProductRef struct {
	ID      string
	Product *Product
}

// Ref creates a reference to a product id
func Ref(id string) ProductRef {
	return ProductRef{ID: id}
}

// Populated reports whether the full product document was embedded
func (r ProductRef) Populated() bool {
	return r.Product != nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	r.ID, r.Product = "", nil
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &r.ID)
	case data[0] == '{':
		var p Product
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		r.ID = p.ID
		r.Product = &p
		return nil
	default:
		return errors.New("product reference must be a string or an object")
	}
}

// MarshalJSON writes the bare id
func (r ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}
