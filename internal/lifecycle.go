package internal

import (
	"time"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

// Transition applies action to o on behalf of actor and returns the next state of the order.
// driver is the actor's profile and is only consulted by accept. The input order is never
// modified; on error the returned order is the zero value.
func Transition(o model.Order, action model.Action, actor model.Principal, driver *model.User, now time.Time) (model.Order, error) {
	next := o

	switch action {
	case model.ActionCancel:
		if actor.Role != model.RoleRetailer || o.RetailerID != actor.ID {
			return model.Order{}, ErrPermissionDenied
		}
		if o.Status != model.OrderStatusPending {
			return model.Order{}, ErrInvalidTransition
		}
		next.Status = model.OrderStatusCancelled

	case model.ActionAccept:
		if actor.Role != model.RoleDriver {
			return model.Order{}, ErrPermissionDenied
		}
		if o.Status != model.OrderStatusPending {
			return model.Order{}, ErrInvalidTransition
		}
		if driver == nil || driver.ID != actor.ID || driver.Vehicle == nil || driver.Vehicle.Plate == "" {
			return model.Order{}, NewValidationError("vehicle", "driver has no vehicle profile")
		}
		id := actor.ID
		snapshot := *driver.Vehicle
		next.DriverID = &id
		next.Vehicle = &snapshot
		next.Status = model.OrderStatusAssigned

	case model.ActionReject:
		if err := requireAssignedDriver(o, actor); err != nil {
			return model.Order{}, err
		}
		if o.Status != model.OrderStatusAssigned && o.Status != model.OrderStatusInTransit {
			return model.Order{}, ErrInvalidTransition
		}
		next.DriverID = nil
		next.Vehicle = nil
		next.Status = model.OrderStatusPending

	case model.ActionDepart:
		if err := requireAssignedDriver(o, actor); err != nil {
			return model.Order{}, err
		}
		if o.Status != model.OrderStatusAssigned {
			return model.Order{}, ErrInvalidTransition
		}
		next.Status = model.OrderStatusInTransit

	case model.ActionComplete:
		if err := requireAssignedDriver(o, actor); err != nil {
			return model.Order{}, err
		}
		if o.Status != model.OrderStatusInTransit {
			return model.Order{}, ErrInvalidTransition
		}
		next.Status = model.OrderStatusDelivered

	default:
		return model.Order{}, NewValidationError("action", "unknown action")
	}

	next.UpdatedAt = now
	next.Version = o.Version + 1
	return next, nil
}

func requireAssignedDriver(o model.Order, actor model.Principal) error {
	if actor.Role != model.RoleDriver || o.DriverID == nil || *o.DriverID != actor.ID {
		return ErrPermissionDenied
	}
	return nil
}

// CheckInvariants reports whether the driver and vehicle snapshot agree with the status.
func CheckInvariants(o model.Order) bool {
	hasDriver := o.DriverID != nil
	if hasDriver != o.Status.HasDriver() {
		return false
	}
	return (o.Vehicle != nil) == hasDriver
}

func notifiable(s model.OrderStatus) bool {
	return s == model.OrderStatusAssigned || s == model.OrderStatusInTransit || s == model.OrderStatusDelivered
}

func actionMessage(action model.Action, o model.Order) string {
	switch action {
	case model.ActionCancel:
		return "order cancelled"
	case model.ActionAccept:
		return "order assigned to you, head to pickup"
	case model.ActionReject:
		return "order released back to the pool"
	case model.ActionDepart:
		return "order in transit"
	case model.ActionComplete:
		return "delivery completed"
	}
	return string(o.Status)
}
