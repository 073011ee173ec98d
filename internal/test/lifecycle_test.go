package test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/model"
)

func intPtr(i int) *int { return &i }

var _ = Describe("Lifecycle", func() {
	var (
		now      = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		retailer = model.Principal{ID: 1, Role: model.RoleRetailer}
		driver   = model.Principal{ID: 2, Role: model.RoleDriver}
		other    = model.Principal{ID: 3, Role: model.RoleDriver}
		admin    = model.Principal{ID: 9, Role: model.RoleAdmin}
		truck    = model.Vehicle{Plate: "ABC123", Brand: "Chevrolet", Model: "NHR", Type: model.VehicleCamion}
		profile  = model.User{ID: 2, Role: model.RoleDriver, Vehicle: &truck}
	)

	pending := func() model.Order {
		return model.Order{ID: 10, RetailerID: retailer.ID, Status: model.OrderStatusPending, Version: 3}
	}
	withDriver := func(s model.OrderStatus) model.Order {
		o := pending()
		o.Status = s
		o.DriverID = intPtr(driver.ID)
		v := truck
		o.Vehicle = &v
		return o
	}

	Context("Transition", func() {
		It("accept assigns the driver and copies the vehicle", func() {
			next, err := internal.Transition(pending(), model.ActionAccept, driver, &profile, now)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(next.Status).Should(Equal(model.OrderStatusAssigned))
			Expect(*next.DriverID).Should(Equal(driver.ID))
			Expect(*next.Vehicle).Should(Equal(truck))
			Expect(next.Version).Should(Equal(4))
			Expect(next.UpdatedAt).Should(Equal(now))
			Expect(internal.CheckInvariants(next)).Should(BeTrue())
		})
		It("keeps the snapshot when the driver profile changes later", func() {
			p := profile
			v := truck
			p.Vehicle = &v

			next, err := internal.Transition(pending(), model.ActionAccept, driver, &p, now)
			Expect(err).ShouldNot(HaveOccurred())

			v.Plate = "XYZ999"
			Expect(next.Vehicle.Plate).Should(Equal("ABC123"))
		})
		It("refuses accept from a driver without a vehicle", func() {
			_, err := internal.Transition(pending(), model.ActionAccept, driver, &model.User{ID: 2, Role: model.RoleDriver}, now)
			Expect(errors.Is(err, internal.ErrValidation)).Should(BeTrue())

			var verr *internal.ValidationError
			Expect(errors.As(err, &verr)).Should(BeTrue())
			Expect(verr.Fields).Should(HaveKey("vehicle"))
		})
		It("reject clears driver and snapshot", func() {
			for _, s := range []model.OrderStatus{model.OrderStatusAssigned, model.OrderStatusInTransit} {
				next, err := internal.Transition(withDriver(s), model.ActionReject, driver, nil, now)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(next.Status).Should(Equal(model.OrderStatusPending))
				Expect(next.DriverID).Should(BeNil())
				Expect(next.Vehicle).Should(BeNil())
				Expect(internal.CheckInvariants(next)).Should(BeTrue())
			}
		})
		It("does not modify the input order", func() {
			o := withDriver(model.OrderStatusAssigned)
			_, err := internal.Transition(o, model.ActionReject, driver, nil, now)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.Status).Should(Equal(model.OrderStatusAssigned))
			Expect(o.DriverID).ShouldNot(BeNil())
		})

		DescribeTable("rejects forbidden transitions",
			func(o func() model.Order, action model.Action, actor model.Principal, expected error) {
				_, err := internal.Transition(o(), action, actor, &profile, now)
				Expect(err).Should(MatchError(expected))
			},
			Entry("cancel by another retailer", pending, model.ActionCancel, model.Principal{ID: 5, Role: model.RoleRetailer}, internal.ErrPermissionDenied),
			Entry("cancel by admin", pending, model.ActionCancel, admin, internal.ErrPermissionDenied),
			Entry("cancel when assigned", func() model.Order { return withDriver(model.OrderStatusAssigned) }, model.ActionCancel, retailer, internal.ErrInvalidTransition),
			Entry("accept by retailer", pending, model.ActionAccept, retailer, internal.ErrPermissionDenied),
			Entry("accept when assigned", func() model.Order { return withDriver(model.OrderStatusAssigned) }, model.ActionAccept, driver, internal.ErrInvalidTransition),
			Entry("depart by another driver", func() model.Order { return withDriver(model.OrderStatusAssigned) }, model.ActionDepart, other, internal.ErrPermissionDenied),
			Entry("depart when in transit", func() model.Order { return withDriver(model.OrderStatusInTransit) }, model.ActionDepart, driver, internal.ErrInvalidTransition),
			Entry("complete when assigned", func() model.Order { return withDriver(model.OrderStatusAssigned) }, model.ActionComplete, driver, internal.ErrInvalidTransition),
			Entry("reject when delivered", func() model.Order { return withDriver(model.OrderStatusDelivered) }, model.ActionReject, driver, internal.ErrInvalidTransition),
			Entry("reject of a pending order", pending, model.ActionReject, driver, internal.ErrPermissionDenied),
		)

		It("walks the happy path keeping invariants", func() {
			o := pending()
			steps := []struct {
				action model.Action
				actor  model.Principal
				status model.OrderStatus
			}{
				{model.ActionAccept, driver, model.OrderStatusAssigned},
				{model.ActionDepart, driver, model.OrderStatusInTransit},
				{model.ActionComplete, driver, model.OrderStatusDelivered},
			}

			for _, s := range steps {
				next, err := internal.Transition(o, s.action, s.actor, &profile, now)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(next.Status).Should(Equal(s.status))
				Expect(internal.CheckInvariants(next)).Should(BeTrue())
				o = next
			}

			cancelled, err := internal.Transition(pending(), model.ActionCancel, retailer, nil, now)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(cancelled.Status).Should(Equal(model.OrderStatusCancelled))
			Expect(internal.CheckInvariants(cancelled)).Should(BeTrue())
		})
		It("fails on unknown actions", func() {
			_, err := internal.Transition(pending(), "teleport", driver, &profile, now)
			Expect(errors.Is(err, internal.ErrValidation)).Should(BeTrue())
		})
	})
})
