package model

import "strings"

type Wholesaler struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// PickupAddress is the origin an order gets when sourced from this wholesaler.
func (w Wholesaler) PickupAddress() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{w.Address, w.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
