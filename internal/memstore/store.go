// Package memstore keeps the whole data set in process memory. It is used when no database is
// configured and by tests that exercise concurrency without a server.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/model"
)

var _ internal.IRepository = (*Store)(nil)

type Store struct {
	mu sync.Mutex

	users       map[int]model.User
	wholesalers map[int]model.Wholesaler
	orders      map[int]model.Order
	invoices    map[int]model.Invoice
	items       map[int]model.OrderItem
	history     []model.StatusChange

	nextUser, nextOrder, nextInvoice, nextItem int
}

func New(wholesalers ...model.Wholesaler) *Store {
	s := &Store{
		users:       make(map[int]model.User),
		wholesalers: make(map[int]model.Wholesaler),
		orders:      make(map[int]model.Order),
		invoices:    make(map[int]model.Invoice),
		items:       make(map[int]model.OrderItem),
	}
	for i, w := range wholesalers {
		if w.ID == 0 {
			w.ID = i + 1
		}
		s.wholesalers[w.ID] = w
	}
	return s
}

// DefaultWholesalers mirrors the catalogue seeded by the database migrations.
func DefaultWholesalers() []model.Wholesaler {
	return []model.Wholesaler{
		{ID: 1, Name: "Distribuidora Paloquemao", NIT: "900123456-1", Address: "Cra 22 # 19-20", City: "Bogotá"},
		{ID: 2, Name: "Abastos Central", NIT: "900654321-7", Address: "Av. Cra 80 # 2-51", City: "Bogotá"},
		{ID: 3, Name: "Mayorista del Norte", NIT: "901112233-4", Address: "Calle 170 # 54-80", City: "Bogotá"},
	}
}

func (s *Store) CreateUser(_ context.Context, u model.User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(u.Email) {
		return 0, internal.ErrEmailIsAlreadyTaken
	}
	s.nextUser++
	u.ID = s.nextUser
	u.Vehicle = copyVehicle(u.Vehicle)
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *Store) IsUserExist(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailTaken(email), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.Vehicle = copyVehicle(u.Vehicle)
			return u, nil
		}
	}
	return model.User{}, internal.ErrNoRecords
}

func (s *Store) GetUserByID(_ context.Context, id int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, internal.ErrNoRecords
	}
	u.Vehicle = copyVehicle(u.Vehicle)
	return u, nil
}

func (s *Store) UpdateVehicle(_ context.Context, uid int, v model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok || u.Role != model.RoleDriver {
		return internal.ErrNoRecords
	}
	for id, other := range s.users {
		if id != uid && other.Vehicle != nil && other.Vehicle.Plate == v.Plate {
			return internal.ErrPlateIsAlreadyTaken
		}
	}
	u.Vehicle = &v
	s.users[uid] = u
	return nil
}

func (s *Store) GetWholesaler(_ context.Context, id int) (model.Wholesaler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wholesalers[id]
	if !ok {
		return model.Wholesaler{}, internal.ErrNoRecords
	}
	return w, nil
}

func (s *Store) ListWholesalers(_ context.Context) ([]model.Wholesaler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := make([]model.Wholesaler, 0, len(s.wholesalers))
	for _, w := range s.wholesalers {
		ws = append(ws, w)
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].Name < ws[j].Name })
	return ws, nil
}

func (s *Store) CreateOrder(_ context.Context, o model.Order, inv model.Invoice) (model.Order, model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrder++
	o.ID = s.nextOrder
	o.Vehicle = copyVehicle(o.Vehicle)
	s.orders[o.ID] = o

	s.nextInvoice++
	inv.ID = s.nextInvoice
	inv.OrderID = o.ID
	s.invoices[inv.ID] = inv

	s.history = append(s.history, model.StatusChange{OrderID: o.ID, To: o.Status, ActorID: o.RetailerID, ChangedAt: o.CreatedAt})
	return o, inv, nil
}

func (s *Store) GetOrder(_ context.Context, id int) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, internal.ErrNoRecords
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context, f model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []model.Order
	for _, o := range s.orders {
		if matches(o, f) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func matches(o model.Order, f model.OrderFilter) bool {
	active := o.Status == model.OrderStatusAssigned || o.Status == model.OrderStatusInTransit
	switch {
	case f.RetailerID > 0:
		return o.RetailerID == f.RetailerID
	case f.DriverID > 0:
		own := active && o.DriverID != nil && *o.DriverID == f.DriverID
		return own || (f.WithPending && o.Status == model.OrderStatusPending)
	case f.WithPending:
		return o.Status == model.OrderStatusPending
	}
	return true
}

func (s *Store) SaveTransition(_ context.Context, prev, next model.Order, actorID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.orders[prev.ID]
	if !ok || cur.Status != prev.Status || cur.Version != prev.Version {
		return internal.ErrInvalidTransition
	}

	// only the fields a transition may touch
	cur.Status = next.Status
	cur.DriverID = copyInt(next.DriverID)
	cur.Vehicle = copyVehicle(next.Vehicle)
	cur.Version = next.Version
	cur.UpdatedAt = next.UpdatedAt
	s.orders[cur.ID] = cur

	from := prev.Status
	s.history = append(s.history, model.StatusChange{OrderID: cur.ID, From: &from, To: next.Status, ActorID: actorID, ChangedAt: next.UpdatedAt})

	if next.Status == model.OrderStatusCancelled {
		for id, inv := range s.invoices {
			if inv.OrderID == cur.ID && inv.Status.Payable() {
				inv.Status = model.InvoiceStatusVoid
				s.invoices[id] = inv
			}
		}
	}
	return nil
}

func (s *Store) DeleteOrder(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return internal.ErrNoRecords
	}
	delete(s.orders, id)

	for iid, inv := range s.invoices {
		if inv.OrderID == id {
			delete(s.invoices, iid)
		}
	}
	for iid, it := range s.items {
		if it.OrderID == id {
			delete(s.items, iid)
		}
	}
	kept := s.history[:0]
	for _, c := range s.history {
		if c.OrderID != id {
			kept = append(kept, c)
		}
	}
	s.history = kept
	return nil
}

func (s *Store) GetStatusHistory(_ context.Context, orderID int) ([]model.StatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []model.StatusChange
	for _, c := range s.history {
		if c.OrderID == orderID {
			res = append(res, c)
		}
	}
	return res, nil
}

func (s *Store) AddOrderItem(_ context.Context, item model.OrderItem, at time.Time) (model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pendingOrder(item.OrderID); err != nil {
		return model.OrderItem{}, err
	}

	s.nextItem++
	item.ID = s.nextItem
	s.items[item.ID] = item
	s.recomputeWeight(item.OrderID, at)
	return item, nil
}

func (s *Store) RemoveOrderItem(_ context.Context, orderID, itemID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pendingOrder(orderID); err != nil {
		return err
	}

	it, ok := s.items[itemID]
	if !ok || it.OrderID != orderID {
		return internal.ErrNoRecords
	}
	delete(s.items, itemID)
	s.recomputeWeight(orderID, at)
	return nil
}

func (s *Store) ListOrderItems(_ context.Context, orderID int) ([]model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.OrderItem
	for _, it := range s.items {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetInvoice(_ context.Context, id int) (model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return model.Invoice{}, internal.ErrNoRecords
	}
	return cloneInvoice(inv), nil
}

func (s *Store) GetInvoiceByOrder(_ context.Context, orderID int) (model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invoices {
		if inv.OrderID == orderID {
			return cloneInvoice(inv), nil
		}
	}
	return model.Invoice{}, internal.ErrNoRecords
}

func (s *Store) PayInvoice(_ context.Context, id int, method model.PaymentMethod, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || !inv.Status.Payable() {
		return internal.ErrInvalidTransition
	}
	inv.Status = model.InvoiceStatusPaid
	inv.Method = method
	inv.PaidAt = &paidAt
	s.invoices[id] = inv
	return nil
}

func (s *Store) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, inv := range s.invoices {
		if inv.Status == model.InvoiceStatusPendingPayment && inv.DueDate.Before(now) {
			inv.Status = model.InvoiceStatusOverdue
			s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

func (s *Store) emailTaken(email string) bool {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) pendingOrder(id int) error {
	o, ok := s.orders[id]
	if !ok {
		return internal.ErrNoRecords
	}
	if o.Status != model.OrderStatusPending {
		return internal.ErrInvalidTransition
	}
	return nil
}

func (s *Store) recomputeWeight(orderID int, at time.Time) {
	total := decimal.Zero
	for _, it := range s.items {
		if it.OrderID == orderID {
			total = total.Add(it.UnitWeightKg.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	o := s.orders[orderID]
	o.Cargo.WeightKg = total
	o.UpdatedAt = at
	s.orders[orderID] = o
}

func cloneOrder(o model.Order) model.Order {
	o.DriverID = copyInt(o.DriverID)
	o.Vehicle = copyVehicle(o.Vehicle)
	return o
}

func cloneInvoice(inv model.Invoice) model.Invoice {
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		inv.PaidAt = &t
	}
	return inv
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyVehicle(v *model.Vehicle) *model.Vehicle {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
