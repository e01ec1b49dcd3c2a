package media_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/media"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Media Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		repo := NewMockRepository()
		provider := NewMemoryProvider()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := media.NewService(repo, provider, logger)
		handler := media.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/mediaobjects", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Post("/", handler.Upload)
			r.Get("/{id}", handler.Show)
			r.Put("/{id}", handler.Update)
			r.Delete("/{id}", handler.Delete)
		})
	})

	multipartUpload := func(field, filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile(field, filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.WriteField("alternative_text", "alt text")).To(Succeed())
		Expect(writer.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/mediaobjects", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should accept a multipart upload on the files field", func() {
		rec := multipartUpload("files", "cover.png", testPNG(50, 50))
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var view media.Media
		Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
		Expect(view.Name).To(Equal("cover.png"))
		Expect(view.AlternativeText).To(Equal("alt text"))
	})

	It("should answer 422 when the files field is missing", func() {
		rec := multipartUpload("attachment", "cover.png", testPNG(50, 50))
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var body map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal("No file provided."))
	})

	It("should answer 422 for a request that is not multipart at all", func() {
		req := httptest.NewRequest(http.MethodPost, "/mediaobjects", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("should answer 404 for an unknown media object", func() {
		req := httptest.NewRequest(http.MethodGet, "/mediaobjects/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
