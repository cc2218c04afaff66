package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"weave/cargo"
)

func newTestRouter() *mux.Router {
	router := mux.NewRouter()
	transcode := NewTranscodeHandler(cargo.DefaultPolicy())
	codec := NewCodecHandler()
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/encode/{format}", transcode.Encode).Methods(http.MethodPost)
	v1.HandleFunc("/decode/{format}", transcode.Decode).Methods(http.MethodPost)
	v1.HandleFunc("/codec/{transport}/{direction}", codec.Handle).Methods(http.MethodPost)
	return router
}

func TestEncodeDecodeJSONRoundTrip(t *testing.T) {
	router := newTestRouter()
	id := uuid.New()

	encReq := EncodeRequest{Content: ContentPayload{Type: "BarA", ID: id.String(), Text: "hello"}}
	body, _ := json.Marshal(encReq)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/encode/json", bytes.NewReader(body))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("encode status = %d, body = %s", w.Code, w.Body.String())
	}

	var encResp EncodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &encResp); err != nil {
		t.Fatalf("unmarshal encode response: %v", err)
	}
	if !strings.Contains(encResp.Document, `"text":"hello"`) {
		t.Errorf("encoded document missing text field: %s", encResp.Document)
	}

	decBody, _ := json.Marshal(DecodeRequest{Document: encResp.Document})
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/v1/decode/json", bytes.NewReader(decBody))
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("decode status = %d, body = %s", w2.Code, w2.Body.String())
	}

	var payload ContentPayload
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal decode response: %v", err)
	}
	if payload.Text != "hello" || payload.ID != id.String() {
		t.Errorf("round trip mismatch: %+v", payload)
	}
}

func TestEncodeXMLProducesElements(t *testing.T) {
	router := newTestRouter()
	encReq := EncodeRequest{Content: ContentPayload{Type: "BarB", Count: 4, Label: "crates"}}
	body, _ := json.Marshal(encReq)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/encode/xml", bytes.NewReader(body))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("encode status = %d, body = %s", w.Code, w.Body.String())
	}

	var encResp EncodeResponse
	json.Unmarshal(w.Body.Bytes(), &encResp)
	if !strings.Contains(encResp.Document, "<count>4</count>") {
		t.Errorf("expected a <count> element, got %s", encResp.Document)
	}
}

func TestDecodeUnknownFormatFails(t *testing.T) {
	router := newTestRouter()
	body, _ := json.Marshal(DecodeRequest{Document: "{}"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode/yaml", bytes.NewReader(body))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDecodeHonorsConfiguredPolicy(t *testing.T) {
	// count is a required BarB entry; whether its absence fails the
	// request is decided by the policy the handler was built with.
	doc := `{"type":"BarB","label":"crates"}`
	body, _ := json.Marshal(DecodeRequest{Document: doc})

	run := func(policy cargo.Policy) int {
		router := mux.NewRouter()
		transcode := NewTranscodeHandler(policy)
		router.HandleFunc("/v1/decode/{format}", transcode.Decode).Methods(http.MethodPost)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/decode/json", bytes.NewReader(body))
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := run(cargo.DefaultPolicy()); code != http.StatusBadRequest {
		t.Errorf("strict policy: status = %d, want 400", code)
	}
	lenient := cargo.DefaultPolicy()
	lenient.MissingEntryFailed = false
	if code := run(lenient); code != http.StatusOK {
		t.Errorf("lenient policy: status = %d, want 200", code)
	}
}

func TestCodecHexRoundTrip(t *testing.T) {
	router := newTestRouter()
	body, _ := json.Marshal(CodecRequest{Data: "hi"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/codec/hex/encode", bytes.NewReader(body))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp CodecResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data != "6869" {
		t.Errorf("got %q, want 6869", resp.Data)
	}
}
