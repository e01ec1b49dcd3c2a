package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestObs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Obs Suite")
}

var _ = Describe("Instrument", func() {
	var router *chi.Mux

	get := func(path string) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	}

	BeforeEach(func() {
		router = chi.NewRouter()
		router.Use(Instrument)
		router.Get("/shelves/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	It("should label parameterized routes with the route pattern", func() {
		get("/shelves/1")
		get("/shelves/2")
		get("/shelves/3")

		count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/shelves/{id}", "200"))
		Expect(count).To(Equal(float64(3)))

		perID := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/shelves/1", "200"))
		Expect(perID).To(BeZero())
	})
})
