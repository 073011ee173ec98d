package test

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/model"
)

var _ = Describe("Auth", func() {
	p := model.Principal{ID: 3, Role: model.RoleDriver}

	It("round trips the principal", func() {
		t, err := internal.NewToken("secret", p, time.Now())
		Expect(err).ShouldNot(HaveOccurred())

		got, err := internal.ParseToken("secret", t)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(got).Should(Equal(p))
	})
	It("refuses foreign, expired and malformed tokens", func() {
		t, err := internal.NewToken("other", p, time.Now())
		Expect(err).ShouldNot(HaveOccurred())
		_, err = internal.ParseToken("secret", t)
		Expect(err).Should(Equal(internal.ErrInvalidToken))

		t, err = internal.NewToken("secret", p, time.Now().Add(-100*time.Hour))
		Expect(err).ShouldNot(HaveOccurred())
		_, err = internal.ParseToken("secret", t)
		Expect(err).Should(Equal(internal.ErrInvalidToken))

		_, err = internal.ParseToken("secret", "not.a.token")
		Expect(err).Should(Equal(internal.ErrInvalidToken))
	})
	It("refuses unknown roles", func() {
		claims := jwt.MapClaims{"id": 3, "role": "PILOT", "exp": time.Now().Add(time.Hour).Unix()}
		t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		Expect(err).ShouldNot(HaveOccurred())

		_, err = internal.ParseToken("secret", t)
		Expect(err).Should(Equal(internal.ErrInvalidToken))
	})
	It("hashes passwords with bcrypt", func() {
		h, err := internal.HashPassword("secret1")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(h).ShouldNot(Equal("secret1"))
		Expect(internal.CheckPassword(h, "secret1")).Should(BeTrue())
		Expect(internal.CheckPassword(h, "secret2")).Should(BeFalse())
	})
})
