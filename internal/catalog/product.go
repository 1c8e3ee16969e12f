package catalog

import (
	"encoding/json"
	"fmt"
)

// Product represents a catalog item from the commerce product export
type Product struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"categories,omitempty"`

	// Attributes holds every other field of the item verbatim so it can be
	// passed through untouched
	Attributes map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Attributes
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	known := map[string]*string{
		"sku":        &p.SKU,
		"name":       &p.Name,
		"categories": &p.Category,
	}
	for key, dest := range known {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		delete(fields, key)
		if string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("invalid %q field: %w", key, err)
		}
	}

	if len(fields) > 0 {
		p.Attributes = fields
	}
	return nil
}

// MarshalJSON writes the known fields followed by the pass-through attributes
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attributes)+3)
	for k, v := range p.Attributes {
		out[k] = v
	}
	out["sku"] = p.SKU
	out["name"] = p.Name
	if p.Category != "" {
		out["categories"] = p.Category
	}
	return json.Marshal(out)
}

// HasCategory reports whether the product carries a category
func (p *Product) HasCategory() bool {
	return p.Category != ""
}
