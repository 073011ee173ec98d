package internal

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

const principalKey = "principal"

type Handlers struct {
	Service IService
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, logger: logger}
}

func (h *Handlers) Routes(app *fiber.App) {
	api := app.Group("/api")

	usr := api.Group("/user")
	usr.Post("/register", h.Register)
	usr.Post("/login", h.Login)
	usr.Put("/vehicle", h.Authenticate, h.UpdateVehicle)

	api.Get("/wholesalers", h.Authenticate, h.ListWholesalers)

	orders := api.Group("/orders", h.Authenticate)
	orders.Get("/", h.ListOrders)
	orders.Post("/", h.CreateOrder)
	orders.Get("/:id", h.GetOrder)
	orders.Delete("/:id", h.DeleteOrder)
	orders.Post("/:id/actions", h.PerformAction)
	orders.Get("/:id/history", h.OrderHistory)
	orders.Get("/:id/items", h.ListOrderItems)
	orders.Post("/:id/items", h.AddOrderItem)
	orders.Delete("/:id/items/:itemID", h.RemoveOrderItem)
	orders.Get("/:id/invoice", h.GetOrderInvoice)

	api.Post("/invoices/:id/pay", h.Authenticate, h.PayInvoice)
}

// Authenticate resolves the caller from the token cookie or a bearer header.
func (h *Handlers) Authenticate(c *fiber.Ctx) error {
	token := c.Cookies("token")
	if auth := c.Get(fiber.HeaderAuthorization); token == "" && strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	if token == "" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	p, err := h.Service.ParseToken(token)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	c.Locals(principalKey, p)
	return c.Next()
}

func principal(c *fiber.Ctx) model.Principal {
	p, _ := c.Locals(principalKey).(model.Principal)
	return p
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var i model.LoginInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	t, err := h.Service.Login(c.Context(), i)
	if err != nil {
		return h.fail(c, "login", err)
	}

	setAuthCookie(c, t)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": t})
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var i model.RegisterInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on register request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}

	t, err := h.Service.Register(c.Context(), i)
	if err != nil {
		return h.fail(c, "register", err)
	}

	setAuthCookie(c, t)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": t})
}

func (h *Handlers) UpdateVehicle(c *fiber.Ctx) error {
	var v model.Vehicle

	if err := c.BodyParser(&v); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	u, err := h.Service.UpdateVehicle(c.Context(), principal(c), v)
	if err != nil {
		return h.fail(c, "update vehicle", err)
	}
	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *Handlers) ListWholesalers(c *fiber.Ctx) error {
	ws, err := h.Service.ListWholesalers(c.Context())
	if err != nil {
		return h.fail(c, "list wholesalers", err)
	}
	return c.Status(fiber.StatusOK).JSON(ws)
}

func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var i model.OrderInput

	if err := c.BodyParser(&i); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Error on create order request", "data": "incorrect request format"})
	}

	o, err := h.Service.CreateOrder(c.Context(), principal(c), i)
	if err != nil {
		return h.fail(c, "create order", err)
	}

	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Service.ListOrdersForActor(c.Context(), principal(c))
	if err != nil {
		return h.fail(c, "list orders", err)
	}

	if len(orders) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(orders)
}

func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	o, err := h.Service.GetOrder(c.Context(), principal(c), id)
	if err != nil {
		return h.fail(c, "get order", err)
	}
	return c.Status(fiber.StatusOK).JSON(o)
}

func (h *Handlers) DeleteOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err = h.Service.DeleteOrder(c.Context(), principal(c), id); err != nil {
		return h.fail(c, "delete order", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type actionInput struct {
	Action model.Action `json:"action"`
}

func (h *Handlers) PerformAction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var i actionInput
	if err = c.BodyParser(&i); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	res, err := h.Service.PerformOrderAction(c.Context(), id, principal(c), model.Action(strings.ToLower(string(i.Action))))
	if err != nil {
		return h.fail(c, "order action", err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *Handlers) OrderHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	history, err := h.Service.OrderHistory(c.Context(), principal(c), id)
	if err != nil {
		return h.fail(c, "order history", err)
	}
	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *Handlers) ListOrderItems(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	items, err := h.Service.ListOrderItems(c.Context(), principal(c), id)
	if err != nil {
		return h.fail(c, "list items", err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *Handlers) AddOrderItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var i model.OrderItemInput
	if err = c.BodyParser(&i); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	item, err := h.Service.AddOrderItem(c.Context(), principal(c), id, i)
	if err != nil {
		return h.fail(c, "add item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *Handlers) RemoveOrderItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	itemID, err := strconv.Atoi(c.Params("itemID"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err = h.Service.RemoveOrderItem(c.Context(), principal(c), id, itemID); err != nil {
		return h.fail(c, "remove item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) GetOrderInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	inv, err := h.Service.GetOrderInvoice(c.Context(), principal(c), id)
	if err != nil {
		return h.fail(c, "get invoice", err)
	}
	return c.Status(fiber.StatusOK).JSON(inv)
}

func (h *Handlers) PayInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var i model.PaymentInput
	if err = c.BodyParser(&i); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	res, err := h.Service.PayInvoice(c.Context(), id, principal(c), i)
	if err != nil {
		return h.fail(c, "pay invoice", err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

// fail maps service errors onto response statuses. Only unexpected errors are logged.
func (h *Handlers) fail(c *fiber.Ctx, op string, err error) error {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Error on " + op + " request", "data": verr.Fields})
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return c.SendStatus(fiber.StatusUnauthorized)
	case errors.Is(err, ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": err.Error()})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrEmailIsAlreadyTaken), errors.Is(err, ErrPlateIsAlreadyTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": err.Error()})
	case errors.Is(err, ErrNoRecords):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	h.logger.Errorf("Error on %s request: %s", op, err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error on " + op + " request"})
}

func setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(tokenTTL),
	}

	c.Cookie(cookie)
}
