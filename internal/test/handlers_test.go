package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/model"
)

var _ = Describe("Handlers", func() {
	var (
		f   *fixture
		app *fiber.App
	)
	BeforeEach(func() {
		f = newFixture()

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		app = fiber.New()
		internal.NewHandlers(f.service, logger.Sugar()).Routes(app)
	})

	token := func(p model.Principal) string {
		t, err := internal.NewToken("secret", p, time.Now())
		Expect(err).ShouldNot(HaveOccurred())
		return t
	}

	do := func(method, path string, p *model.Principal, body interface{}) *http.Response {
		var r io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			Expect(err).ShouldNot(HaveOccurred())
			r = bytes.NewReader(b)
		}

		req := httptest.NewRequest(method, path, r)
		req.Header.Set("Content-Type", "application/json")
		if p != nil {
			req.Header.Set("Authorization", "Bearer "+token(*p))
		}

		resp, err := app.Test(req, -1)
		Expect(err).ShouldNot(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, v interface{}) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(v)).Should(Succeed())
	}

	Context("User", func() {
		It("Register sets the auth cookie", func() {
			resp := do(http.MethodPost, "/api/user/register", nil, model.RegisterInput{FullName: "Ana Ruiz", Email: "ana@example.com", Password: "secret1", Role: "RETAILER"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			Expect(resp.Cookies()).ShouldNot(BeEmpty())
			Expect(resp.Cookies()[0].Name).Should(Equal("token"))

			resp = do(http.MethodPost, "/api/user/register", nil, model.RegisterInput{FullName: "Ana Ruiz", Email: "ANA@example.com", Password: "secret1", Role: "RETAILER"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusConflict))
		})
		It("Register with invalid fields", func() {
			resp := do(http.MethodPost, "/api/user/register", nil, model.RegisterInput{Email: "ana", Role: "ADMIN"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusUnprocessableEntity))

			var body struct {
				Data map[string]string `json:"data"`
			}
			decode(resp, &body)
			Expect(body.Data).Should(HaveKey("role"))
		})
		It("Login with wrong password", func() {
			resp := do(http.MethodPost, "/api/user/login", nil, model.LoginInput{Email: "tienda@example.com", Password: "nope"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusUnauthorized))

			resp = do(http.MethodPost, "/api/user/login", nil, model.LoginInput{Email: "tienda@example.com", Password: "secret1"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
		})
		It("UpdateVehicle for drivers only", func() {
			v := model.Vehicle{Plate: "qwe456", Brand: "Ford", Model: "Ranger", Type: model.VehicleCamioneta}

			resp := do(http.MethodPut, "/api/user/vehicle", &f.retailer, v)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusForbidden))

			resp = do(http.MethodPut, "/api/user/vehicle", &f.walker, v)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))

			var u model.User
			decode(resp, &u)
			Expect(u.Vehicle.Plate).Should(Equal("QWE456"))

			resp = do(http.MethodPut, "/api/user/vehicle", &f.rival, v)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusConflict))
		})
	})

	Context("Orders", func() {
		It("requires a token", func() {
			resp := do(http.MethodGet, "/api/orders", nil, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusUnauthorized))

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.Header.Set("Authorization", "Bearer garbage")
			resp, err := app.Test(req, -1)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(resp.StatusCode).Should(Equal(fiber.StatusUnauthorized))
		})
		It("accepts the token cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/wholesalers", nil)
			req.AddCookie(&http.Cookie{Name: "token", Value: token(f.retailer)})

			resp, err := app.Test(req, -1)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))

			var ws []model.Wholesaler
			decode(resp, &ws)
			Expect(ws).Should(HaveLen(3))
		})
		It("maps service errors onto statuses", func() {
			resp := do(http.MethodPost, "/api/orders", &f.driver, f.orderInput())
			Expect(resp.StatusCode).Should(Equal(fiber.StatusForbidden))

			in := f.orderInput()
			in.PickupAt = f.now.Add(-time.Hour)
			resp = do(http.MethodPost, "/api/orders", &f.retailer, in)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusUnprocessableEntity))

			resp = do(http.MethodGet, "/api/orders/999", &f.retailer, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusNotFound))

			resp = do(http.MethodGet, "/api/orders/abc", &f.retailer, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusBadRequest))

			resp = do(http.MethodGet, "/api/orders", &f.other, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusNoContent))
		})
		It("takes cargo figures as JSON numbers", func() {
			body := fiber.Map{
				"wholesalerID": 1,
				"destination":  "Calle 100 # 15-20",
				"pickupAt":     f.now.Add(24 * time.Hour),
				"cargo": fiber.Map{
					"category": "SECAS",
					"weightKg": 10,
					"units":    2,
					"lengthM":  0.5,
					"heightM":  0.5,
					"widthM":   "0.5",
				},
			}

			resp := do(http.MethodPost, "/api/orders", &f.retailer, body)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusCreated))

			var o model.Order
			decode(resp, &o)
			Expect(o.VolumeM3.String()).Should(Equal("0.25"))
			Expect(o.EstimatedPrice.String()).Should(Equal("53000"))
		})
		It("runs an order from creation to payment", func() {
			resp := do(http.MethodPost, "/api/orders", &f.retailer, f.orderInput())
			Expect(resp.StatusCode).Should(Equal(fiber.StatusCreated))
			var o model.Order
			decode(resp, &o)
			Expect(o.Status).Should(Equal(model.OrderStatusPending))

			path := fmt.Sprintf("/api/orders/%d", o.ID)

			resp = do(http.MethodPost, path+"/items", &f.retailer, model.OrderItemInput{Description: "Arroz", Quantity: 2})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusCreated))

			resp = do(http.MethodPost, path+"/actions", &f.driver, fiber.Map{"action": "accept"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			var res model.OrderResult
			decode(resp, &res)
			Expect(res.Success).Should(BeTrue())
			Expect(res.Status).Should(Equal(model.OrderStatusAssigned))

			resp = do(http.MethodPost, path+"/actions", &f.rival, fiber.Map{"action": "accept"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusConflict))

			resp = do(http.MethodPost, path+"/actions", &f.rival, fiber.Map{"action": "depart"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusForbidden))

			resp = do(http.MethodGet, path+"/history", &f.retailer, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			var history []model.StatusChange
			decode(resp, &history)
			Expect(history).Should(HaveLen(2))

			resp = do(http.MethodGet, path+"/invoice", &f.retailer, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			var inv model.Invoice
			decode(resp, &inv)

			pay := fmt.Sprintf("/api/invoices/%d/pay", inv.ID)
			resp = do(http.MethodPost, pay, &f.retailer, model.PaymentInput{Method: model.PaymentCard, CardNumber: "4111111111111111"})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			var paid model.InvoiceResult
			decode(resp, &paid)
			Expect(paid.Success).Should(BeTrue())

			resp = do(http.MethodPost, pay, &f.retailer, model.PaymentInput{Method: model.PaymentCash})
			Expect(resp.StatusCode).Should(Equal(fiber.StatusOK))
			decode(resp, &paid)
			Expect(paid.Success).Should(BeFalse())

			resp = do(http.MethodDelete, path, &f.retailer, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusForbidden))
			resp = do(http.MethodDelete, path, &f.admin, nil)
			Expect(resp.StatusCode).Should(Equal(fiber.StatusNoContent))
		})
	})
})
