// Package api wires weave's demo HTTP surface: encode/decode endpoints
// for the JSON and XML transports, the hex/base64 byte codecs, a health
// check, and Swagger documentation.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"weave/cargo"
)

// NewRouter builds the full gorilla/mux router for the demo server.
// docsDir is the directory containing swagger.json; swaggerHost is the
// host:port the served document advertises; policy is the base
// transport policy applied to encode/decode requests.
func NewRouter(docsDir, appVersion, swaggerHost string, policy cargo.Policy) *mux.Router {
	router := mux.NewRouter()

	health := NewHealthHandler(appVersion)
	transcode := NewTranscodeHandler(policy)
	codec := NewCodecHandler()

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	v1.HandleFunc("/encode/{format}", transcode.Encode).Methods(http.MethodPost)
	v1.HandleFunc("/decode/{format}", transcode.Decode).Methods(http.MethodPost)
	v1.HandleFunc("/codec/{transport}/{direction}", codec.Handle).Methods(http.MethodPost)

	router.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		raw, err := os.ReadFile(filepath.Join(docsDir, "swagger.json"))
		if err != nil {
			RespondError(w, http.StatusInternalServerError, "swagger document unavailable")
			return
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			RespondError(w, http.StatusInternalServerError, "swagger document malformed")
			return
		}
		doc["host"] = swaggerHost
		RespondJSON(w, http.StatusOK, doc)
	}).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return router
}
