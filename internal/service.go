package internal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/theplant/luhn"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
	"github.com/DrGermanius/Bogocargo/internal/pricing"
)

const minPasswordLength = 6

// column widths of the vehicle profile
const (
	maxPlateLength   = 10
	maxVehicleLength = 60
)

type IService interface {
	Register(context.Context, model.RegisterInput) (string, error)
	Login(context.Context, model.LoginInput) (string, error)
	ParseToken(string) (model.Principal, error)
	UpdateVehicle(context.Context, model.Principal, model.Vehicle) (model.User, error)

	CreateOrder(context.Context, model.Principal, model.OrderInput) (model.Order, error)
	PerformOrderAction(ctx context.Context, orderID int, p model.Principal, action model.Action) (model.OrderResult, error)
	ListOrdersForActor(context.Context, model.Principal) ([]model.Order, error)
	GetOrder(context.Context, model.Principal, int) (model.Order, error)
	OrderHistory(context.Context, model.Principal, int) ([]model.StatusChange, error)
	DeleteOrder(context.Context, model.Principal, int) error

	AddOrderItem(ctx context.Context, p model.Principal, orderID int, in model.OrderItemInput) (model.OrderItem, error)
	RemoveOrderItem(ctx context.Context, p model.Principal, orderID, itemID int) error
	ListOrderItems(context.Context, model.Principal, int) ([]model.OrderItem, error)

	GetOrderInvoice(context.Context, model.Principal, int) (model.Invoice, error)
	PayInvoice(ctx context.Context, invoiceID int, p model.Principal, in model.PaymentInput) (model.InvoiceResult, error)
	MarkOverdueInvoices(context.Context, time.Time) (int64, error)

	ListWholesalers(context.Context) ([]model.Wholesaler, error)
}

type IPricer interface {
	Compute(model.Cargo, pricing.Route) pricing.Quote
}

type ServiceConfig struct {
	JWTSecret  string
	Location   *time.Location
	CutoffHour int
	Clock      func() time.Time
}

type Service struct {
	repo     IRepository
	pricer   IPricer
	notifier INotifier
	cfg      ServiceConfig
	logger   *zap.SugaredLogger
}

func NewService(repo IRepository, pricer IPricer, notifier INotifier, cfg ServiceConfig, logger *zap.SugaredLogger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Service{repo: repo, pricer: pricer, notifier: notifier, cfg: cfg, logger: logger}
}

func (s Service) Register(ctx context.Context, in model.RegisterInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	verr := &ValidationError{}
	first, last := splitName(in.FullName)
	if first == "" {
		verr.Add("fullName", "required")
	}
	if !strings.Contains(email, "@") {
		verr.Add("email", "invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("at least %d characters", minPasswordLength))
	}
	role, ok := model.ParseRole(in.Role)
	if !ok || role == model.RoleAdmin {
		verr.Add("role", "must be RETAILER or DRIVER")
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	exist, err := s.repo.IsUserExist(ctx, email)
	if err != nil {
		return "", err
	}
	if exist {
		return "", ErrEmailIsAlreadyTaken
	}

	h, err := HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	id, err := s.repo.CreateUser(ctx, model.User{
		Email:        email,
		Password:     h,
		FirstName:    first,
		LastName:     last,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Active:       true,
		RegisteredAt: s.cfg.Clock(),
	})
	if err != nil {
		return "", err
	}

	return NewToken(s.cfg.JWTSecret, model.Principal{ID: id, Role: role}, time.Now())
}

func (s Service) Login(ctx context.Context, in model.LoginInput) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, ErrNoRecords) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !CheckPassword(u.Password, in.Password) {
		return "", ErrInvalidCredentials
	}
	if !u.Active {
		return "", ErrPermissionDenied
	}

	return NewToken(s.cfg.JWTSecret, model.Principal{ID: u.ID, Role: u.Role}, time.Now())
}

func (s Service) ParseToken(token string) (model.Principal, error) {
	return ParseToken(s.cfg.JWTSecret, token)
}

func (s Service) UpdateVehicle(ctx context.Context, p model.Principal, v model.Vehicle) (model.User, error) {
	if p.Role != model.RoleDriver {
		return model.User{}, ErrPermissionDenied
	}

	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	v.Type = model.VehicleType(strings.ToUpper(strings.TrimSpace(string(v.Type))))

	verr := &ValidationError{}
	if v.Plate == "" {
		verr.Add("plate", "required")
	} else if utf8.RuneCountInString(v.Plate) > maxPlateLength {
		verr.Add("plate", fmt.Sprintf("at most %d characters", maxPlateLength))
	}
	if utf8.RuneCountInString(v.Brand) > maxVehicleLength {
		verr.Add("brand", fmt.Sprintf("at most %d characters", maxVehicleLength))
	}
	if utf8.RuneCountInString(v.Model) > maxVehicleLength {
		verr.Add("model", fmt.Sprintf("at most %d characters", maxVehicleLength))
	}
	if !v.Type.Valid() {
		verr.Add("type", "must be MOTO, CAMIONETA or CAMION")
	}
	if err := verr.OrNil(); err != nil {
		return model.User{}, err
	}

	if err := s.repo.UpdateVehicle(ctx, p.ID, v); err != nil {
		return model.User{}, err
	}
	return s.repo.GetUserByID(ctx, p.ID)
}

func (s Service) CreateOrder(ctx context.Context, p model.Principal, in model.OrderInput) (model.Order, error) {
	if p.Role != model.RoleRetailer {
		return model.Order{}, ErrPermissionDenied
	}

	now := s.cfg.Clock()
	verr := &ValidationError{}

	cargo, invalid := pricing.Coerce(in.Cargo)
	for _, f := range invalid {
		verr.Add("cargo."+f, "must be a non-negative number")
	}
	if !cargo.Category.Valid() {
		verr.Add("cargo.category", "unknown category")
	}

	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		verr.Add("destination", "required")
	}

	if reason := s.checkPickup(in.PickupAt, now); reason != "" {
		verr.Add("pickupAt", reason)
	}

	w, err := s.repo.GetWholesaler(ctx, in.WholesalerID)
	if errors.Is(err, ErrNoRecords) {
		verr.Add("wholesalerID", "unknown wholesaler")
	} else if err != nil {
		return model.Order{}, err
	}

	if err = verr.OrNil(); err != nil {
		return model.Order{}, err
	}

	origin := w.PickupAddress()
	quote := s.pricer.Compute(cargo, pricing.Route{Origin: origin, Destination: destination})

	o := model.Order{
		RetailerID:     p.ID,
		WholesalerID:   w.ID,
		Cargo:          cargo,
		VolumeM3:       quote.VolumeM3,
		EstimatedPrice: quote.Price,
		Origin:         origin,
		Destination:    destination,
		PickupAt:       in.PickupAt,
		Status:         model.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	o, inv, err := s.repo.CreateOrder(ctx, o, model.NewInvoice(quote.Price, now))
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Infow("order created",
		"order_id", o.ID,
		"retailer_id", p.ID,
		"invoice_id", inv.ID,
		"price", o.EstimatedPrice.String())
	s.notifier.Publish(NewOrderEvent(o.ID, nil, o.Status, p.ID, now))
	return o, nil
}

// checkPickup returns a reason when the pickup time cannot be accepted at now. Same-day pickups
// must be requested before the cutoff hour and scheduled no later than it.
func (s Service) checkPickup(pickup, now time.Time) string {
	now = now.In(s.cfg.Location)
	pickup = pickup.In(s.cfg.Location)

	if pickup.Before(now) {
		return "pickup time is in the past"
	}

	py, pm, pd := pickup.Date()
	ny, nm, nd := now.Date()
	if py != ny || pm != nm || pd != nd {
		return ""
	}

	cutoff := time.Date(ny, nm, nd, s.cfg.CutoffHour, 0, 0, 0, s.cfg.Location)
	if !now.Before(cutoff) {
		return fmt.Sprintf("same-day pickups must be requested before %02d:00", s.cfg.CutoffHour)
	}
	if pickup.After(cutoff) {
		return fmt.Sprintf("same-day pickups must be scheduled no later than %02d:00", s.cfg.CutoffHour)
	}
	return ""
}

func (s Service) PerformOrderAction(ctx context.Context, orderID int, p model.Principal, action model.Action) (model.OrderResult, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return model.OrderResult{Message: err.Error()}, err
	}

	var driver *model.User
	if action == model.ActionAccept && p.Role == model.RoleDriver {
		u, err := s.repo.GetUserByID(ctx, p.ID)
		if err != nil && !errors.Is(err, ErrNoRecords) {
			return model.OrderResult{Status: o.Status, Message: err.Error()}, err
		}
		if err == nil {
			driver = &u
		}
	}

	now := s.cfg.Clock()
	next, err := Transition(o, action, p, driver, now)
	if err != nil {
		return model.OrderResult{Status: o.Status, Message: err.Error()}, err
	}

	if err = s.repo.SaveTransition(ctx, o, next, p.ID); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.logger.Infow("transition lost race", "order_id", o.ID, "action", action, "actor_id", p.ID)
		}
		return model.OrderResult{Status: o.Status, Message: err.Error()}, err
	}

	from := o.Status
	s.notifier.Publish(NewOrderEvent(next.ID, &from, next.Status, p.ID, now))
	if notifiable(next.Status) {
		s.notifier.Notify(Notification{
			UserID:  next.RetailerID,
			Subject: fmt.Sprintf("Order #%d is %s", next.ID, next.Status),
			Body:    retailerMessage(next),
			OrderID: next.ID,
			Status:  next.Status,
		})
	}

	return model.OrderResult{
		Success: true,
		Status:  next.Status,
		Message: actionMessage(action, next),
		Order:   &next,
	}, nil
}

func retailerMessage(o model.Order) string {
	switch o.Status {
	case model.OrderStatusAssigned:
		return fmt.Sprintf("A driver accepted your order #%d (vehicle %s). Pickup at %s.",
			o.ID, o.Vehicle.Plate, o.PickupAt.Format("2006-01-02 15:04"))
	case model.OrderStatusInTransit:
		return fmt.Sprintf("Your order #%d left %s and is on its way to %s.", o.ID, o.Origin, o.Destination)
	case model.OrderStatusDelivered:
		return fmt.Sprintf("Your order #%d was delivered to %s.", o.ID, o.Destination)
	}
	return fmt.Sprintf("Your order #%d is %s.", o.ID, o.Status)
}

func (s Service) ListOrdersForActor(ctx context.Context, p model.Principal) ([]model.Order, error) {
	var f model.OrderFilter
	switch p.Role {
	case model.RoleRetailer:
		f.RetailerID = p.ID
	case model.RoleDriver:
		f.DriverID = p.ID
		f.WithPending = true
	case model.RoleAdmin:
	default:
		return nil, ErrPermissionDenied
	}
	return s.repo.ListOrders(ctx, f)
}

func (s Service) GetOrder(ctx context.Context, p model.Principal, id int) (model.Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if !canView(p, o) {
		return model.Order{}, ErrPermissionDenied
	}
	return o, nil
}

func canView(p model.Principal, o model.Order) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleRetailer:
		return o.RetailerID == p.ID
	case model.RoleDriver:
		return o.Status == model.OrderStatusPending || (o.DriverID != nil && *o.DriverID == p.ID)
	}
	return false
}

func (s Service) OrderHistory(ctx context.Context, p model.Principal, id int) ([]model.StatusChange, error) {
	if _, err := s.GetOrder(ctx, p, id); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, id)
}

func (s Service) DeleteOrder(ctx context.Context, p model.Principal, id int) error {
	if p.Role != model.RoleAdmin {
		return ErrPermissionDenied
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("order deleted", "order_id", id, "admin_id", p.ID)
	return nil
}

func (s Service) AddOrderItem(ctx context.Context, p model.Principal, orderID int, in model.OrderItemInput) (model.OrderItem, error) {
	verr := &ValidationError{}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		verr.Add("description", "required")
	}
	if in.UnitWeightKg.IsNegative() {
		verr.Add("unitWeightKg", "must be non-negative")
	}
	if in.Quantity < 1 {
		verr.Add("quantity", "must be at least 1")
	}
	if err := verr.OrNil(); err != nil {
		return model.OrderItem{}, err
	}

	if err := s.ownPendingOrder(ctx, p, orderID); err != nil {
		return model.OrderItem{}, err
	}

	return s.repo.AddOrderItem(ctx, model.OrderItem{
		OrderID:      orderID,
		Description:  desc,
		UnitWeightKg: in.UnitWeightKg.Round(2),
		Quantity:     in.Quantity,
	}, s.cfg.Clock())
}

func (s Service) RemoveOrderItem(ctx context.Context, p model.Principal, orderID, itemID int) error {
	if err := s.ownPendingOrder(ctx, p, orderID); err != nil {
		return err
	}
	return s.repo.RemoveOrderItem(ctx, orderID, itemID, s.cfg.Clock())
}

func (s Service) ownPendingOrder(ctx context.Context, p model.Principal, orderID int) error {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if p.Role != model.RoleRetailer || o.RetailerID != p.ID {
		return ErrPermissionDenied
	}
	if o.Status != model.OrderStatusPending {
		return ErrInvalidTransition
	}
	return nil
}

func (s Service) ListOrderItems(ctx context.Context, p model.Principal, orderID int) ([]model.OrderItem, error) {
	if _, err := s.GetOrder(ctx, p, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListOrderItems(ctx, orderID)
}

func (s Service) GetOrderInvoice(ctx context.Context, p model.Principal, orderID int) (model.Invoice, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return model.Invoice{}, err
	}
	if p.Role != model.RoleAdmin && (p.Role != model.RoleRetailer || o.RetailerID != p.ID) {
		return model.Invoice{}, ErrPermissionDenied
	}
	return s.repo.GetInvoiceByOrder(ctx, orderID)
}

func (s Service) PayInvoice(ctx context.Context, invoiceID int, p model.Principal, in model.PaymentInput) (model.InvoiceResult, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return model.InvoiceResult{}, err
	}

	o, err := s.repo.GetOrder(ctx, inv.OrderID)
	if err != nil {
		return model.InvoiceResult{}, err
	}
	if p.Role != model.RoleRetailer || o.RetailerID != p.ID {
		return model.InvoiceResult{}, ErrPermissionDenied
	}

	if inv.Status == model.InvoiceStatusPaid {
		return alreadyPaid(inv), nil
	}

	method := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(in.Method))))
	if !method.Valid() {
		return model.InvoiceResult{}, NewValidationError("method", "must be CARD, BANK_TRANSFER or CASH")
	}
	if method == model.PaymentCard && !validCard(in.CardNumber) {
		return model.InvoiceResult{}, NewValidationError("cardNumber", ErrLuhnInvalid.Error())
	}

	if !inv.Status.Payable() {
		return model.InvoiceResult{Status: inv.Status, Message: "invoice is " + string(inv.Status), Invoice: inv}, ErrInvalidTransition
	}

	err = s.repo.PayInvoice(ctx, inv.ID, method, s.cfg.Clock())
	if err != nil && !errors.Is(err, ErrInvalidTransition) {
		return model.InvoiceResult{}, err
	}

	// reload: a concurrent payment shows up as an already paid invoice
	paid, rerr := s.repo.GetInvoice(ctx, inv.ID)
	if rerr != nil {
		return model.InvoiceResult{}, rerr
	}
	if err != nil {
		if paid.Status == model.InvoiceStatusPaid {
			return alreadyPaid(paid), nil
		}
		return model.InvoiceResult{Status: paid.Status, Message: err.Error(), Invoice: paid}, err
	}

	s.logger.Infow("invoice paid", "invoice_id", paid.ID, "order_id", paid.OrderID, "method", method)
	return model.InvoiceResult{Success: true, Status: paid.Status, Message: "payment registered", Invoice: paid}, nil
}

func alreadyPaid(inv model.Invoice) model.InvoiceResult {
	return model.InvoiceResult{Success: false, Status: inv.Status, Message: "invoice already paid", Invoice: inv}
}

func validCard(number string) bool {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	if len(digits) < 19 {
		n, err := strconv.Atoi(digits)
		return err == nil && luhn.Valid(n)
	}

	// 19 digits overflow int. The leading digit sits at an undoubled position and only adds its
	// value to the checksum, so it folds into the check digit of the remaining 18.
	head := int(digits[0] - '0')
	body, err := strconv.Atoi(digits[1:])
	if err != nil {
		return false
	}
	return (body%10+head)%10 == luhn.CalculateLuhn(body/10)
}

func (s Service) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Infow("invoices marked overdue", "count", n)
	}
	return n, nil
}

func (s Service) ListWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	return s.repo.ListWholesalers(ctx)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
