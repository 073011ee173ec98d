package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleRetailer Role = "RETAILER"
	RoleDriver   Role = "DRIVER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts the role names case-insensitively. Unknown names yield false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleRetailer, RoleDriver, RoleAdmin:
		return r, true
	}
	return "", false
}

type VehicleType string

const (
	VehicleMoto      VehicleType = "MOTO"
	VehicleCamioneta VehicleType = "CAMIONETA"
	VehicleCamion    VehicleType = "CAMION"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleMoto, VehicleCamioneta, VehicleCamion:
		return true
	}
	return false
}

type Vehicle struct {
	Plate string      `json:"plate"`
	Brand string      `json:"brand"`
	Model string      `json:"model"`
	Type  VehicleType `json:"type"`
}

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	Vehicle      *Vehicle  `json:"vehicle,omitempty"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Principal is the authenticated caller as resolved at the auth boundary.
type Principal struct {
	ID   int
	Role Role
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}
