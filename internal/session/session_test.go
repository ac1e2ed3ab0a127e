package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rizkypratama/maintenance-portal/internal/session"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

const testSecret = "test-session-secret-0123456789abcdef"

var _ = Describe("Codec", func() {
	var codec *session.Codec

	BeforeEach(func() {
		codec = session.NewCodec(testSecret, time.Hour)
	})

	Describe("Issue and Verify", func() {
		It("should round-trip the full claim set", func() {
			token, err := codec.Issue(session.Claims{
				UserID: "user-1",
				Email:  "teknisi@pabrik.co.id",
				Name:   "Teknisi Lapangan",
				Role:   "STAFF",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			claims, err := codec.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-1"))
			Expect(claims.Email).To(Equal("teknisi@pabrik.co.id"))
			Expect(claims.Name).To(Equal("Teknisi Lapangan"))
			Expect(claims.Role).To(Equal("STAFF"))
		})

		It("should refuse to issue a token without a user id", func() {
			_, err := codec.Issue(session.Claims{Email: "a@b.c"})
			Expect(err).To(Equal(session.ErrMissingSubject))
		})

		It("should reject garbage tokens", func() {
			_, err := codec.Verify("not-a-jwt")
			Expect(err).To(Equal(session.ErrInvalidToken))
		})

		It("should reject tokens signed with a different secret", func() {
			other := session.NewCodec("another-secret-another-secret-123456", time.Hour)
			token, err := other.Issue(session.Claims{UserID: "user-1"})
			Expect(err).NotTo(HaveOccurred())

			_, err = codec.Verify(token)
			Expect(err).To(Equal(session.ErrInvalidToken))
		})

		It("should report expired tokens distinctly", func() {
			shortLived := session.NewCodec(testSecret, time.Millisecond)
			token, err := shortLived.Issue(session.Claims{UserID: "user-1"})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() error {
				_, verr := shortLived.Verify(token)
				return verr
			}, time.Second, 10*time.Millisecond).Should(Equal(session.ErrTokenExpired))
		})
	})

	Describe("FromRequest", func() {
		It("should return ErrNoSession when the cookie is absent", func() {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			_, err := codec.FromRequest(req)
			Expect(err).To(Equal(session.ErrNoSession))
		})

		It("should resolve claims from the session cookie", func() {
			token, err := codec.Issue(session.Claims{UserID: "user-1", Role: "ADMIN"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

			claims, err := codec.FromRequest(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-1"))
			Expect(claims.Role).To(Equal("ADMIN"))
		})
	})
})

var _ = Describe("CookieWriter", func() {
	It("should set an HttpOnly lax cookie scoped to the whole site", func() {
		cw := session.NewCookieWriter(false, 24*time.Hour)
		rec := httptest.NewRecorder()

		cw.Set(rec, "token-value")

		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		cookie := cookies[0]
		Expect(cookie.Name).To(Equal(session.CookieName))
		Expect(cookie.Value).To(Equal("token-value"))
		Expect(cookie.HttpOnly).To(BeTrue())
		Expect(cookie.Secure).To(BeFalse())
		Expect(cookie.SameSite).To(Equal(http.SameSiteLaxMode))
		Expect(cookie.Path).To(Equal("/"))
		Expect(cookie.MaxAge).To(Equal(int((24 * time.Hour).Seconds())))
	})

	It("should mark the cookie secure in production mode", func() {
		cw := session.NewCookieWriter(true, time.Hour)
		rec := httptest.NewRecorder()

		cw.Set(rec, "token-value")

		Expect(rec.Result().Cookies()[0].Secure).To(BeTrue())
	})

	It("should clear the cookie with an immediate expiry", func() {
		cw := session.NewCookieWriter(false, time.Hour)
		rec := httptest.NewRecorder()

		cw.Clear(rec)

		cookie := rec.Result().Cookies()[0]
		Expect(cookie.Value).To(BeEmpty())
		Expect(cookie.MaxAge).To(BeNumerically("<", 0))
	})
})
