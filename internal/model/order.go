package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// HasDriver reports whether an order in this status must carry a driver and a vehicle snapshot.
func (s OrderStatus) HasDriver() bool {
	return s == OrderStatusAssigned || s == OrderStatusInTransit || s == OrderStatusDelivered
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionDepart   Action = "depart"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

type Category string

const (
	CategoryDry          Category = "SECAS"
	CategoryElectronics  Category = "ELECTRONICOS"
	CategoryPerishable   Category = "PERECEDEROS"
	CategoryRefrigerated Category = "REFRIGERADOS"
	CategoryFragile      Category = "FRAGILES"
	CategoryHazardous    Category = "PELIGROSAS"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDry, CategoryElectronics, CategoryPerishable, CategoryRefrigerated, CategoryFragile, CategoryHazardous:
		return true
	}
	return false
}

type Cargo struct {
	Category      Category        `json:"category"`
	DeclaredValue decimal.Decimal `json:"declaredValue"`
	WeightKg      decimal.Decimal `json:"weightKg"`
	Units         int             `json:"units"`
	LengthM       decimal.Decimal `json:"lengthM"`
	HeightM       decimal.Decimal `json:"heightM"`
	WidthM        decimal.Decimal `json:"widthM"`
}

// CargoInput is the cargo as submitted by a client, before coercion. Numeric fields keep the
// raw text; JSON numbers, strings and null are all accepted for them.
type CargoInput struct {
	Category      string `json:"category"`
	DeclaredValue string `json:"declaredValue"`
	WeightKg      string `json:"weightKg"`
	Units         string `json:"units"`
	LengthM       string `json:"lengthM"`
	HeightM       string `json:"heightM"`
	WidthM        string `json:"widthM"`
}

func (c *CargoInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Category      string      `json:"category"`
		DeclaredValue looseNumber `json:"declaredValue"`
		WeightKg      looseNumber `json:"weightKg"`
		Units         looseNumber `json:"units"`
		LengthM       looseNumber `json:"lengthM"`
		HeightM       looseNumber `json:"heightM"`
		WidthM        looseNumber `json:"widthM"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = CargoInput{
		Category:      raw.Category,
		DeclaredValue: string(raw.DeclaredValue),
		WeightKg:      string(raw.WeightKg),
		Units:         string(raw.Units),
		LengthM:       string(raw.LengthM),
		HeightM:       string(raw.HeightM),
		WidthM:        string(raw.WidthM),
	}
	return nil
}

type looseNumber string

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = looseNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = looseNumber(num)
	return nil
}

type Order struct {
	ID             int             `json:"id"`
	RetailerID     int             `json:"retailerID"`
	DriverID       *int            `json:"driverID"`
	WholesalerID   int             `json:"wholesalerID"`
	Cargo          Cargo           `json:"cargo"`
	VolumeM3       decimal.Decimal `json:"volumeM3"`
	EstimatedPrice decimal.Decimal `json:"estimatedPrice"`
	Vehicle        *Vehicle        `json:"vehicle"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	PickupAt       time.Time       `json:"pickupAt"`
	Status         OrderStatus     `json:"status"`
	Version        int             `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type OrderInput struct {
	WholesalerID int        `json:"wholesalerID"`
	Destination  string     `json:"destination"`
	Cargo        CargoInput `json:"cargo"`
	PickupAt     time.Time  `json:"pickupAt"`
}

type OrderResult struct {
	Success bool        `json:"success"`
	Status  OrderStatus `json:"status"`
	Message string      `json:"message"`
	Order   *Order      `json:"order,omitempty"`
}

// OrderFilter selects orders for listing. Zero values mean "no constraint".
type OrderFilter struct {
	RetailerID  int
	DriverID    int
	WithPending bool
}

type OrderItem struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"orderID"`
	Description  string          `json:"description"`
	UnitWeightKg decimal.Decimal `json:"unitWeightKg"`
	Quantity     int             `json:"quantity"`
}

type OrderItemInput struct {
	Description  string          `json:"description"`
	UnitWeightKg decimal.Decimal `json:"unitWeightKg"`
	Quantity     int             `json:"quantity"`
}

type StatusChange struct {
	OrderID   int          `json:"orderID"`
	From      *OrderStatus `json:"from"`
	To        OrderStatus  `json:"to"`
	ActorID   int          `json:"actorID"`
	ChangedAt time.Time    `json:"changedAt"`
}
