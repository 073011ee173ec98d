package test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/model"
)

var orderColumns = []string{
	"id", "retailer_id", "driver_id", "wholesaler_id", "category", "declared_value", "weight_kg", "units",
	"length_m", "height_m", "width_m", "volume_m3", "estimated_price", "vehicle_plate", "vehicle_brand", "vehicle_model",
	"vehicle_type", "origin", "destination", "pickup_at", "status", "version", "created_at", "updated_at",
}

var _ = Describe("Repository", func() {
	var (
		repo internal.IRepository
		mock sqlmock.Sqlmock
		ctx  = context.Background()
		t    = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	)
	BeforeEach(func() {
		db, m, err := sqlmock.New()
		Expect(err).ShouldNot(HaveOccurred())

		mock = m
		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		repo = internal.Repository{
			Conn:   db,
			Logger: logger.Sugar(),
		}
	})
	AfterEach(func() {
		err := mock.ExpectationsWereMet()
		Expect(err).ShouldNot(HaveOccurred())
	})

	pendingRow := func(id int) []driver.Value {
		return []driver.Value{
			id, 1, nil, 2, "SECAS", "0", "10", 2,
			"0.5", "0.5", "0.5", "0.25", "53000", nil, nil, nil,
			nil, "Av. 80, Bogotá", "Calle 100", t.Add(24 * time.Hour), "PENDING", 1, t, t,
		}
	}

	Context("Orders", func() {
		It("GetOrder maps the vehicle snapshot", func() {
			rows := sqlmock.NewRows(orderColumns).AddRow(
				5, 1, 2, 2, "FRAGILES", "100000", "10", 2,
				"0.5", "0.5", "0.5", "0.25", "66500", "ABC123", "Chevrolet", "NHR",
				"CAMION", "Av. 80, Bogotá", "Calle 100", t.Add(24*time.Hour), "ASSIGNED", 2, t, t,
			)
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = ").WithArgs(5).WillReturnRows(rows)

			o, err := repo.GetOrder(ctx, 5)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.Status).Should(Equal(model.OrderStatusAssigned))
			Expect(o.Cargo.Category).Should(Equal(model.CategoryFragile))
			Expect(*o.DriverID).Should(Equal(2))
			Expect(o.Vehicle).Should(Equal(&model.Vehicle{Plate: "ABC123", Brand: "Chevrolet", Model: "NHR", Type: model.VehicleCamion}))
			Expect(o.EstimatedPrice.Equal(decimal.NewFromInt(66500))).Should(BeTrue())
			Expect(o.Version).Should(Equal(2))
		})
		It("GetOrder without rows", func() {
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = ").WithArgs(5).WillReturnRows(sqlmock.NewRows(orderColumns))

			_, err := repo.GetOrder(ctx, 5)
			Expect(err).Should(Equal(internal.ErrNoRecords))
		})
		It("ListOrders for a driver includes the pending pool", func() {
			rows := sqlmock.NewRows(orderColumns).AddRow(pendingRow(7)...).AddRow(pendingRow(6)...)
			mock.ExpectQuery(regexp.QuoteMeta("WHERE (driver_id = $1 AND status IN ('ASSIGNED', 'IN_TRANSIT')) OR status = 'PENDING' ORDER BY created_at DESC")).
				WithArgs(2).
				WillReturnRows(rows)

			orders, err := repo.ListOrders(ctx, model.OrderFilter{DriverID: 2, WithPending: true})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(orders).Should(HaveLen(2))
			Expect(orders[0].ID).Should(Equal(7))
			Expect(orders[1].DriverID).Should(BeNil())
			Expect(orders[1].Vehicle).Should(BeNil())
		})
		It("CreateOrder inserts order, invoice and history in one transaction", func() {
			o := model.Order{
				RetailerID:     1,
				WholesalerID:   2,
				Cargo:          model.Cargo{Category: model.CategoryDry, WeightKg: decimal.NewFromInt(10), Units: 2},
				VolumeM3:       decimal.RequireFromString("0.25"),
				EstimatedPrice: decimal.NewFromInt(53000),
				Status:         model.OrderStatusPending,
				CreatedAt:      t,
				UpdatedAt:      t,
			}
			inv := model.NewInvoice(o.EstimatedPrice, t)

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO orders").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
			mock.ExpectQuery("INSERT INTO invoices").
				WithArgs(11, inv.Amount, t, t.AddDate(0, 0, 15), "PENDING_PAYMENT").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
			mock.ExpectExec("INSERT INTO order_status_log").
				WithArgs(11, nil, "PENDING", 1, t).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()

			created, invoice, err := repo.CreateOrder(ctx, o, inv)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(created.ID).Should(Equal(11))
			Expect(invoice.ID).Should(Equal(4))
			Expect(invoice.OrderID).Should(Equal(11))
		})
		It("CreateOrder rolls back when the invoice fails", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO orders").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
			mock.ExpectQuery("INSERT INTO invoices").WillReturnError(context.DeadlineExceeded)
			mock.ExpectRollback()

			_, _, err := repo.CreateOrder(ctx, model.Order{Status: model.OrderStatusPending}, model.NewInvoice(decimal.NewFromInt(15000), t))
			Expect(err).Should(MatchError(context.DeadlineExceeded))
		})
	})

	Context("SaveTransition", func() {
		prev := model.Order{ID: 5, RetailerID: 1, Status: model.OrderStatusPending, Version: 1}

		It("updates guarded by status and version", func() {
			next := prev
			next.Status = model.OrderStatusAssigned
			next.DriverID = intPtr(2)
			next.Vehicle = &model.Vehicle{Plate: "ABC123", Brand: "Chevrolet", Model: "NHR", Type: model.VehicleCamion}
			next.Version = 2
			next.UpdatedAt = t

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).
				WithArgs("ASSIGNED", 2, "ABC123", "Chevrolet", "NHR", "CAMION", 2, t, 5, "PENDING", 1).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec("INSERT INTO order_status_log").
				WithArgs(5, "PENDING", "ASSIGNED", 2, t).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()

			Expect(repo.SaveTransition(ctx, prev, next, 2)).Should(Succeed())
		})
		It("reports a lost race as an invalid transition", func() {
			next := prev
			next.Status = model.OrderStatusAssigned
			next.DriverID = intPtr(3)
			next.Vehicle = &model.Vehicle{Plate: "XYZ987"}
			next.Version = 2

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectRollback()

			Expect(repo.SaveTransition(ctx, prev, next, 3)).Should(Equal(internal.ErrInvalidTransition))
		})
		It("voids the open invoice on cancel", func() {
			next := prev
			next.Status = model.OrderStatusCancelled
			next.Version = 2
			next.UpdatedAt = t

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1")).
				WithArgs("CANCELLED", nil, nil, nil, nil, nil, 2, t, 5, "PENDING", 1).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec("INSERT INTO order_status_log").WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectExec("UPDATE invoices SET status").
				WithArgs("VOID", 5, "PENDING_PAYMENT", "OVERDUE").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			Expect(repo.SaveTransition(ctx, prev, next, 1)).Should(Succeed())
		})
	})

	Context("Items", func() {
		It("AddOrderItem recomputes the weight in the same transaction", func() {
			item := model.OrderItem{OrderID: 5, Description: "Arroz", UnitWeightKg: decimal.RequireFromString("2.5"), Quantity: 4}

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
				WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
			mock.ExpectQuery("INSERT INTO order_items").
				WithArgs(5, "Arroz", item.UnitWeightKg, 4).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
			mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET weight_kg = (SELECT COALESCE(SUM(unit_weight_kg * quantity), 0) FROM order_items")).
				WithArgs(5, t).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			saved, err := repo.AddOrderItem(ctx, item, t)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(saved.ID).Should(Equal(9))
		})
		It("AddOrderItem refuses orders that left PENDING", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
				WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ASSIGNED"))
			mock.ExpectRollback()

			_, err := repo.AddOrderItem(ctx, model.OrderItem{OrderID: 5, Description: "Sal", Quantity: 1}, t)
			Expect(err).Should(Equal(internal.ErrInvalidTransition))
		})
		It("RemoveOrderItem of a foreign item", func() {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
				WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
			mock.ExpectExec("DELETE FROM order_items WHERE id = (.+) AND order_id = ").
				WithArgs(9, 5).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectRollback()

			Expect(repo.RemoveOrderItem(ctx, 5, 9, t)).Should(Equal(internal.ErrNoRecords))
		})
	})

	Context("Invoices", func() {
		It("GetInvoice reads payment details", func() {
			rows := sqlmock.NewRows([]string{"id", "order_id", "amount", "issued_at", "due_date", "status", "payment_method", "paid_at"}).
				AddRow(4, 11, "53000", t, t.AddDate(0, 0, 15), "PAID", "CARD", t.Add(time.Hour))
			mock.ExpectQuery("SELECT (.+) FROM invoices WHERE id = ").WithArgs(4).WillReturnRows(rows)

			inv, err := repo.GetInvoice(ctx, 4)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(inv.Status).Should(Equal(model.InvoiceStatusPaid))
			Expect(inv.Method).Should(Equal(model.PaymentCard))
			Expect(*inv.PaidAt).Should(Equal(t.Add(time.Hour)))
		})
		It("PayInvoice only moves payable invoices", func() {
			mock.ExpectExec("UPDATE invoices SET status = (.+), payment_method = ").
				WithArgs("PAID", "CASH", t, 4, "PENDING_PAYMENT", "OVERDUE").
				WillReturnResult(sqlmock.NewResult(0, 0))

			Expect(repo.PayInvoice(ctx, 4, model.PaymentCash, t)).Should(Equal(internal.ErrInvalidTransition))
		})
		It("MarkOverdue returns the affected count", func() {
			mock.ExpectExec("UPDATE invoices SET status = (.+) WHERE status = (.+) AND due_date < ").
				WithArgs("OVERDUE", "PENDING_PAYMENT", t).
				WillReturnResult(sqlmock.NewResult(0, 3))

			n, err := repo.MarkOverdue(ctx, t)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(n).Should(Equal(int64(3)))
		})
	})

	Context("Users", func() {
		It("GetUserByEmail without vehicle", func() {
			rows := sqlmock.NewRows([]string{"id", "email", "password", "first_name", "last_name", "phone", "role",
				"vehicle_plate", "vehicle_brand", "vehicle_model", "vehicle_type", "active", "registered_at"}).
				AddRow(1, "tienda@example.com", "hash", "Tienda", "", nil, "RETAILER", nil, nil, nil, nil, true, t)
			mock.ExpectQuery("SELECT (.+) FROM users WHERE lower\\(email\\) = lower\\(").WithArgs("tienda@example.com").WillReturnRows(rows)

			u, err := repo.GetUserByEmail(ctx, "tienda@example.com")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(u.Role).Should(Equal(model.RoleRetailer))
			Expect(u.Vehicle).Should(BeNil())
			Expect(u.Active).Should(BeTrue())
		})
		It("IsUserExist", func() {
			mock.ExpectQuery("SELECT EXISTS").WithArgs("a@b.co").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

			exist, err := repo.IsUserExist(ctx, "a@b.co")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(exist).Should(BeTrue())
		})
		It("UpdateVehicle of a non driver", func() {
			mock.ExpectExec("UPDATE users SET vehicle_plate").
				WithArgs("ABC123", "Chevrolet", "NHR", "CAMION", 1, "DRIVER").
				WillReturnResult(sqlmock.NewResult(0, 0))

			err := repo.UpdateVehicle(ctx, 1, model.Vehicle{Plate: "ABC123", Brand: "Chevrolet", Model: "NHR", Type: model.VehicleCamion})
			Expect(err).Should(Equal(internal.ErrNoRecords))
		})
		It("UpdateVehicle with a plate owned by another driver", func() {
			mock.ExpectExec("UPDATE users SET vehicle_plate").
				WithArgs("XYZ987", "Yamaha", "NMAX", "MOTO", 3, "DRIVER").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_vehicle_plate_key"})

			err := repo.UpdateVehicle(ctx, 3, model.Vehicle{Plate: "XYZ987", Brand: "Yamaha", Model: "NMAX", Type: model.VehicleMoto})
			Expect(err).Should(Equal(internal.ErrPlateIsAlreadyTaken))
		})
		It("GetStatusHistory keeps the creation entry without origin", func() {
			rows := sqlmock.NewRows([]string{"order_id", "from_status", "to_status", "actor_id", "changed_at"}).
				AddRow(5, nil, "PENDING", 1, t).
				AddRow(5, "PENDING", "ASSIGNED", 2, t.Add(time.Minute))
			mock.ExpectQuery("SELECT (.+) FROM order_status_log WHERE order_id = ").WithArgs(5).WillReturnRows(rows)

			history, err := repo.GetStatusHistory(ctx, 5)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(history).Should(HaveLen(2))
			Expect(history[0].From).Should(BeNil())
			Expect(*history[1].From).Should(Equal(model.OrderStatusPending))
		})
	})
})
