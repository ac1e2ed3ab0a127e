package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenAPI spec", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).NotTo(HaveOccurred())
	})

	It("should describe every portal endpoint", func() {
		for _, path := range []string{
			"/auth/login",
			"/auth/logout",
			"/auth/register",
			"/auth/me",
			"/reports",
			"/reports/stats",
			"/reports/{id}",
			"/reports/download/{id}",
			"/gallery",
			"/gallery/stats",
			"/gallery/{id}",
			"/health",
			"/ping",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should declare the session cookie scheme", func() {
		scheme := doc.Components.SecuritySchemes["sessionCookie"]
		Expect(scheme).NotTo(BeNil())
		Expect(scheme.Value.In).To(Equal("cookie"))
		Expect(scheme.Value.Name).To(Equal("auth-token"))
	})
})
