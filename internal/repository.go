package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

const uniqueViolation = "23505"

const (
	orderFields = "id, retailer_id, driver_id, wholesaler_id, category, declared_value, weight_kg, units, " +
		"length_m, height_m, width_m, volume_m3, estimated_price, vehicle_plate, vehicle_brand, vehicle_model, " +
		"vehicle_type, origin, destination, pickup_at, status, version, created_at, updated_at"
	invoiceFields    = "id, order_id, amount, issued_at, due_date, status, payment_method, paid_at"
	userFields       = "id, email, password, first_name, last_name, phone, role, vehicle_plate, vehicle_brand, vehicle_model, vehicle_type, active, registered_at"
	wholesalerFields = "id, name, nit, address, city"
	statusLogFields  = "order_id, from_status, to_status, actor_id, changed_at"
	itemFields       = "id, order_id, description, unit_weight_kg, quantity"

	recomputeWeight = "UPDATE orders SET weight_kg = (SELECT COALESCE(SUM(unit_weight_kg * quantity), 0) FROM order_items WHERE order_id = $1), updated_at = $2 WHERE id = $1"
)

type IRepository interface {
	CreateUser(context.Context, model.User) (int, error)
	IsUserExist(context.Context, string) (bool, error)
	GetUserByEmail(context.Context, string) (model.User, error)
	GetUserByID(context.Context, int) (model.User, error)
	UpdateVehicle(context.Context, int, model.Vehicle) error

	GetWholesaler(context.Context, int) (model.Wholesaler, error)
	ListWholesalers(context.Context) ([]model.Wholesaler, error)

	CreateOrder(context.Context, model.Order, model.Invoice) (model.Order, model.Invoice, error)
	GetOrder(context.Context, int) (model.Order, error)
	ListOrders(context.Context, model.OrderFilter) ([]model.Order, error)
	SaveTransition(ctx context.Context, prev, next model.Order, actorID int) error
	DeleteOrder(context.Context, int) error
	GetStatusHistory(context.Context, int) ([]model.StatusChange, error)

	AddOrderItem(ctx context.Context, item model.OrderItem, at time.Time) (model.OrderItem, error)
	RemoveOrderItem(ctx context.Context, orderID, itemID int, at time.Time) error
	ListOrderItems(context.Context, int) ([]model.OrderItem, error)

	GetInvoice(context.Context, int) (model.Invoice, error)
	GetInvoiceByOrder(context.Context, int) (model.Invoice, error)
	PayInvoice(ctx context.Context, id int, method model.PaymentMethod, paidAt time.Time) error
	MarkOverdue(context.Context, time.Time) (int64, error)
}

type Repository struct {
	Conn   *sql.DB
	Logger *zap.SugaredLogger
}

func NewRepository(connString string, logger *zap.SugaredLogger) (*Repository, error) {
	conn, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Repository{Conn: conn, Logger: logger}, nil
}

func (r Repository) Close() error {
	return r.Conn.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r Repository) CreateUser(ctx context.Context, u model.User) (int, error) {
	plate, brand, vmodel, vtype := vehicleArgs(u.Vehicle)

	var id int
	err := r.Conn.QueryRowContext(ctx, "INSERT INTO users (email, password, first_name, last_name, phone, role, vehicle_plate, vehicle_brand, vehicle_model, vehicle_type, active, registered_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id",
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, string(u.Role), plate, brand, vmodel, vtype, u.Active, u.RegisteredAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r Repository) IsUserExist(ctx context.Context, email string) (bool, error) {
	exist := false

	err := r.Conn.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))", email).Scan(&exist)
	if err != nil {
		return false, err
	}
	return exist, nil
}

func (r Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.Conn.QueryRowContext(ctx, "SELECT "+userFields+" FROM users WHERE lower(email) = lower($1)", email))
}

func (r Repository) GetUserByID(ctx context.Context, id int) (model.User, error) {
	return scanUser(r.Conn.QueryRowContext(ctx, "SELECT "+userFields+" FROM users WHERE id = $1", id))
}

func (r Repository) UpdateVehicle(ctx context.Context, uid int, v model.Vehicle) error {
	res, err := r.Conn.ExecContext(ctx, "UPDATE users SET vehicle_plate = $1, vehicle_brand = $2, vehicle_model = $3, vehicle_type = $4 WHERE id = $5 AND role = $6",
		v.Plate, v.Brand, v.Model, string(v.Type), uid, string(model.RoleDriver))
	if isUniqueViolation(err) {
		return ErrPlateIsAlreadyTaken
	}
	if err != nil {
		return err
	}
	return expectAffected(res, ErrNoRecords)
}

func (r Repository) GetWholesaler(ctx context.Context, id int) (model.Wholesaler, error) {
	var w model.Wholesaler
	err := r.Conn.QueryRowContext(ctx, "SELECT "+wholesalerFields+" FROM wholesalers WHERE id = $1", id).
		Scan(&w.ID, &w.Name, &w.NIT, &w.Address, &w.City)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Wholesaler{}, ErrNoRecords
	}
	if err != nil {
		return model.Wholesaler{}, err
	}
	return w, nil
}

func (r Repository) ListWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	rows, err := r.Conn.QueryContext(ctx, "SELECT "+wholesalerFields+" FROM wholesalers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ws []model.Wholesaler
	for rows.Next() {
		var w model.Wholesaler
		if err = rows.Scan(&w.ID, &w.Name, &w.NIT, &w.Address, &w.City); err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

func (r Repository) CreateOrder(ctx context.Context, o model.Order, inv model.Invoice) (model.Order, model.Invoice, error) {
	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, model.Invoice{}, err
	}
	defer tx.Rollback()

	c := o.Cargo
	err = tx.QueryRowContext(ctx, "INSERT INTO orders (retailer_id, wholesaler_id, category, declared_value, weight_kg, units, length_m, height_m, width_m, volume_m3, estimated_price, origin, destination, pickup_at, status, version, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id",
		o.RetailerID, o.WholesalerID, string(c.Category), c.DeclaredValue, c.WeightKg, c.Units, c.LengthM, c.HeightM, c.WidthM,
		o.VolumeM3, o.EstimatedPrice, o.Origin, o.Destination, o.PickupAt, string(o.Status), o.Version, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return model.Order{}, model.Invoice{}, fmt.Errorf("insert order: %w", err)
	}

	inv.OrderID = o.ID
	err = tx.QueryRowContext(ctx, "INSERT INTO invoices (order_id, amount, issued_at, due_date, status) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		inv.OrderID, inv.Amount, inv.IssuedAt, inv.DueDate, string(inv.Status)).Scan(&inv.ID)
	if err != nil {
		return model.Order{}, model.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO order_status_log ("+statusLogFields+") VALUES ($1, $2, $3, $4, $5)",
		o.ID, nil, string(o.Status), o.RetailerID, o.CreatedAt)
	if err != nil {
		return model.Order{}, model.Invoice{}, fmt.Errorf("insert status log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return model.Order{}, model.Invoice{}, err
	}
	return o, inv, nil
}

func (r Repository) GetOrder(ctx context.Context, id int) (model.Order, error) {
	return scanOrder(r.Conn.QueryRowContext(ctx, "SELECT "+orderFields+" FROM orders WHERE id = $1", id))
}

func (r Repository) ListOrders(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	query := "SELECT " + orderFields + " FROM orders"
	var args []interface{}

	switch {
	case f.RetailerID > 0:
		query += " WHERE retailer_id = $1"
		args = append(args, f.RetailerID)
	case f.DriverID > 0 && f.WithPending:
		query += " WHERE (driver_id = $1 AND status IN ('ASSIGNED', 'IN_TRANSIT')) OR status = 'PENDING'"
		args = append(args, f.DriverID)
	case f.DriverID > 0:
		query += " WHERE driver_id = $1 AND status IN ('ASSIGNED', 'IN_TRANSIT')"
		args = append(args, f.DriverID)
	case f.WithPending:
		query += " WHERE status = 'PENDING'"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveTransition persists next only if the stored order still has prev's status and version.
func (r Repository) SaveTransition(ctx context.Context, prev, next model.Order, actorID int) error {
	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var driverID sql.NullInt64
	if next.DriverID != nil {
		driverID = sql.NullInt64{Int64: int64(*next.DriverID), Valid: true}
	}
	plate, brand, vmodel, vtype := vehicleArgs(next.Vehicle)

	res, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1, driver_id = $2, vehicle_plate = $3, vehicle_brand = $4, vehicle_model = $5, vehicle_type = $6, version = $7, updated_at = $8 WHERE id = $9 AND status = $10 AND version = $11",
		string(next.Status), driverID, plate, brand, vmodel, vtype, next.Version, next.UpdatedAt, prev.ID, string(prev.Status), prev.Version)
	if err != nil {
		return err
	}
	if err = expectAffected(res, ErrInvalidTransition); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO order_status_log ("+statusLogFields+") VALUES ($1, $2, $3, $4, $5)",
		prev.ID, string(prev.Status), string(next.Status), actorID, next.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}

	if next.Status == model.OrderStatusCancelled {
		_, err = tx.ExecContext(ctx, "UPDATE invoices SET status = $1 WHERE order_id = $2 AND status IN ($3, $4)",
			string(model.InvoiceStatusVoid), prev.ID, string(model.InvoiceStatusPendingPayment), string(model.InvoiceStatusOverdue))
		if err != nil {
			return fmt.Errorf("void invoice: %w", err)
		}
	}

	return tx.Commit()
}

func (r Repository) DeleteOrder(ctx context.Context, id int) error {
	res, err := r.Conn.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrNoRecords)
}

func (r Repository) GetStatusHistory(ctx context.Context, orderID int) ([]model.StatusChange, error) {
	rows, err := r.Conn.QueryContext(ctx, "SELECT "+statusLogFields+" FROM order_status_log WHERE order_id = $1 ORDER BY changed_at, id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.StatusChange
	for rows.Next() {
		var (
			c    model.StatusChange
			from sql.NullString
			to   string
		)
		if err = rows.Scan(&c.OrderID, &from, &to, &c.ActorID, &c.ChangedAt); err != nil {
			return nil, err
		}
		if from.Valid {
			s := model.OrderStatus(from.String)
			c.From = &s
		}
		c.To = model.OrderStatus(to)
		history = append(history, c)
	}
	return history, rows.Err()
}

func (r Repository) AddOrderItem(ctx context.Context, item model.OrderItem, at time.Time) (model.OrderItem, error) {
	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.OrderItem{}, err
	}
	defer tx.Rollback()

	if err = lockPendingOrder(ctx, tx, item.OrderID); err != nil {
		return model.OrderItem{}, err
	}

	err = tx.QueryRowContext(ctx, "INSERT INTO order_items (order_id, description, unit_weight_kg, quantity) VALUES ($1, $2, $3, $4) RETURNING id",
		item.OrderID, item.Description, item.UnitWeightKg, item.Quantity).Scan(&item.ID)
	if err != nil {
		return model.OrderItem{}, err
	}

	if _, err = tx.ExecContext(ctx, recomputeWeight, item.OrderID, at); err != nil {
		return model.OrderItem{}, fmt.Errorf("recompute weight: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

func (r Repository) RemoveOrderItem(ctx context.Context, orderID, itemID int, at time.Time) error {
	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = lockPendingOrder(ctx, tx, orderID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE id = $1 AND order_id = $2", itemID, orderID)
	if err != nil {
		return err
	}
	if err = expectAffected(res, ErrNoRecords); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, recomputeWeight, orderID, at); err != nil {
		return fmt.Errorf("recompute weight: %w", err)
	}

	return tx.Commit()
}

func (r Repository) ListOrderItems(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	rows, err := r.Conn.QueryContext(ctx, "SELECT "+itemFields+" FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var i model.OrderItem
		if err = rows.Scan(&i.ID, &i.OrderID, &i.Description, &i.UnitWeightKg, &i.Quantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r Repository) GetInvoice(ctx context.Context, id int) (model.Invoice, error) {
	return scanInvoice(r.Conn.QueryRowContext(ctx, "SELECT "+invoiceFields+" FROM invoices WHERE id = $1", id))
}

func (r Repository) GetInvoiceByOrder(ctx context.Context, orderID int) (model.Invoice, error) {
	return scanInvoice(r.Conn.QueryRowContext(ctx, "SELECT "+invoiceFields+" FROM invoices WHERE order_id = $1", orderID))
}

func (r Repository) PayInvoice(ctx context.Context, id int, method model.PaymentMethod, paidAt time.Time) error {
	res, err := r.Conn.ExecContext(ctx, "UPDATE invoices SET status = $1, payment_method = $2, paid_at = $3 WHERE id = $4 AND status IN ($5, $6)",
		string(model.InvoiceStatusPaid), string(method), paidAt, id, string(model.InvoiceStatusPendingPayment), string(model.InvoiceStatusOverdue))
	if err != nil {
		return err
	}
	return expectAffected(res, ErrInvalidTransition)
}

func (r Repository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.Conn.ExecContext(ctx, "UPDATE invoices SET status = $1 WHERE status = $2 AND due_date < $3",
		string(model.InvoiceStatusOverdue), string(model.InvoiceStatusPendingPayment), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func lockPendingOrder(ctx context.Context, tx *sql.Tx, orderID int) error {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRecords
	}
	if err != nil {
		return err
	}
	if model.OrderStatus(status) != model.OrderStatusPending {
		return ErrInvalidTransition
	}
	return nil
}

func expectAffected(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return none
	}
	return nil
}

func vehicleArgs(v *model.Vehicle) (plate, brand, vmodel, vtype sql.NullString) {
	if v == nil {
		return
	}
	return sql.NullString{String: v.Plate, Valid: true},
		sql.NullString{String: v.Brand, Valid: true},
		sql.NullString{String: v.Model, Valid: true},
		sql.NullString{String: string(v.Type), Valid: true}
}

func vehicleFrom(plate, brand, vmodel, vtype sql.NullString) *model.Vehicle {
	if !plate.Valid {
		return nil
	}
	return &model.Vehicle{Plate: plate.String, Brand: brand.String, Model: vmodel.String, Type: model.VehicleType(vtype.String)}
}

func scanOrder(s scanner) (model.Order, error) {
	var (
		o                           model.Order
		driverID                    sql.NullInt64
		plate, brand, vmodel, vtype sql.NullString
		category, status            string
	)

	err := s.Scan(&o.ID, &o.RetailerID, &driverID, &o.WholesalerID, &category, &o.Cargo.DeclaredValue, &o.Cargo.WeightKg, &o.Cargo.Units,
		&o.Cargo.LengthM, &o.Cargo.HeightM, &o.Cargo.WidthM, &o.VolumeM3, &o.EstimatedPrice, &plate, &brand, &vmodel,
		&vtype, &o.Origin, &o.Destination, &o.PickupAt, &status, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNoRecords
	}
	if err != nil {
		return model.Order{}, err
	}

	o.Cargo.Category = model.Category(category)
	o.Status = model.OrderStatus(status)
	if driverID.Valid {
		id := int(driverID.Int64)
		o.DriverID = &id
	}
	o.Vehicle = vehicleFrom(plate, brand, vmodel, vtype)
	return o, nil
}

func scanInvoice(s scanner) (model.Invoice, error) {
	var (
		inv    model.Invoice
		status string
		method sql.NullString
		paidAt sql.NullTime
	)

	err := s.Scan(&inv.ID, &inv.OrderID, &inv.Amount, &inv.IssuedAt, &inv.DueDate, &status, &method, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Invoice{}, ErrNoRecords
	}
	if err != nil {
		return model.Invoice{}, err
	}

	inv.Status = model.InvoiceStatus(status)
	inv.Method = model.PaymentMethod(method.String)
	if paidAt.Valid {
		t := paidAt.Time
		inv.PaidAt = &t
	}
	return inv, nil
}

func scanUser(s scanner) (model.User, error) {
	var (
		u                           model.User
		role                        string
		phone                       sql.NullString
		plate, brand, vmodel, vtype sql.NullString
	)

	err := s.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &phone, &role, &plate, &brand, &vmodel, &vtype, &u.Active, &u.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNoRecords
	}
	if err != nil {
		return model.User{}, err
	}

	u.Phone = phone.String
	u.Role = model.Role(role)
	u.Vehicle = vehicleFrom(plate, brand, vmodel, vtype)
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
