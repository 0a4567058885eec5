package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reveriegames/reverie/pkg/narrator"
	"github.com/reveriegames/reverie/pkg/narrator/httpapi"
	"github.com/reveriegames/reverie/pkg/scene"
)

func turnRequest() *narrator.Request {
	return &narrator.Request{
		SessionID:       "sess-1",
		ScenesCompleted: 2,
		PlayerChoice:    "open the door",
		CurrentLocation: "ruined_chapel",
		CurrentWorld:    "default",
	}
}

func backendScene() *scene.Scene {
	return &scene.Scene{
		SceneTag:       "scene_002",
		Location:       "crypt",
		World:          "default",
		NarrationText:  "The door gives way to stale air.",
		Options:        []string{"Descend", "Turn back"},
		MoodAtmosphere: "ominous",
	}
}

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
		ctx    context.Context
		mux    *http.ServeMux
		server *httptest.Server
		client *httpapi.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)
		client = httpapi.NewClient(server.URL)
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the turn request and returns the scene", func() {
		var received narrator.Request
		handle(mux, http.MethodPost, "/game/interact", func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			json.NewEncoder(w).Encode(backendScene())
		})

		got, err := client.GenerateScene(ctx, turnRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(got.SceneTag).To(Equal("scene_002"))
		Expect(got.Location).To(Equal("crypt"))
		Expect(received.SessionID).To(Equal("sess-1"))
		Expect(received.PlayerChoice).To(Equal("open the door"))
	})

	It("rejects a 200 response missing required fields", func() {
		handle(mux, http.MethodPost, "/game/interact", func(w http.ResponseWriter, _ *http.Request) {
			gutted := backendScene()
			gutted.Location = ""
			json.NewEncoder(w).Encode(gutted)
		})

		_, err := client.GenerateScene(ctx, turnRequest())
		Expect(err).To(HaveOccurred())

		var malformed scene.MalformedError
		Expect(errors.As(err, &malformed)).To(BeTrue())
	})

	It("surfaces a backend error status", func() {
		handle(mux, http.MethodPost, "/game/interact", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		})

		_, err := client.GenerateScene(ctx, turnRequest())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("503"))
	})

	It("surfaces a malformed body", func() {
		handle(mux, http.MethodPost, "/game/interact", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json"))
		})

		_, err := client.GenerateScene(ctx, turnRequest())
		Expect(err).To(HaveOccurred())
	})
})
