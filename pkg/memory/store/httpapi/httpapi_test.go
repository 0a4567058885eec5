package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store/httpapi"
)

// handle registers a handler for one method and path. ServeMux "METHOD /path"
// patterns need Go 1.22, so the method is enforced manually.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

var _ = Describe("Client", func() {
	var (
		ctx     context.Context
		mux     *http.ServeMux
		server  *httptest.Server
		client  *httpapi.Client
		now     time.Time
		fixture *memory.Record
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		fixture = memory.NewRecord("sess-1", "default", now)
		fixture.ScenesCompleted = 4

		mux = http.NewServeMux()
		server = httptest.NewServer(mux)
		client = httpapi.NewClient(server.URL)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Load", func() {
		It("returns the record on a loaded status", func() {
			handle(mux, http.MethodGet, "/v1/memory/sess-1", func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"status": "loaded",
					"record": fixture,
				})
			})

			record, found, err := client.Load(ctx, "sess-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(record.SessionID).To(Equal("sess-1"))
			Expect(record.ScenesCompleted).To(Equal(4))
		})

		It("treats a missing status as a miss, not an error", func() {
			handle(mux, http.MethodGet, "/v1/memory/sess-1", func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"status": "missing"})
			})

			record, found, err := client.Load(ctx, "sess-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
			Expect(record).To(BeNil())
		})

		It("surfaces a server error", func() {
			handle(mux, http.MethodGet, "/v1/memory/sess-1", func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			})

			_, found, err := client.Load(ctx, "sess-1")
			Expect(err).To(HaveOccurred())
			Expect(found).To(BeFalse())
		})
	})

	Describe("Save", func() {
		It("puts the record as JSON", func() {
			var received memory.Record
			handle(mux, http.MethodPut, "/v1/memory", func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]string{"status": "saved"})
			})

			Expect(client.Save(ctx, fixture)).To(Succeed())
			Expect(received.SessionID).To(Equal("sess-1"))
			Expect(received.ScenesCompleted).To(Equal(4))
		})

		It("surfaces a server error", func() {
			handle(mux, http.MethodPut, "/v1/memory", func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			})

			Expect(client.Save(ctx, fixture)).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("deletes by session id", func() {
			called := false
			handle(mux, http.MethodDelete, "/v1/memory/sess-1", func(w http.ResponseWriter, _ *http.Request) {
				called = true
				json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
			})

			Expect(client.Delete(ctx, "sess-1")).To(Succeed())
			Expect(called).To(BeTrue())
		})

		It("tolerates a 404 for a never-saved session", func() {
			handle(mux, http.MethodDelete, "/v1/memory/sess-1", func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			})

			Expect(client.Delete(ctx, "sess-1")).To(Succeed())
		})
	})
})
