package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"weave/cargo"
	"weave/logger"
	"weave/models"
	"weave/wirejson"
	"weave/wirexml"
)

// TranscodeHandler exposes the inventory/cargo protocol over HTTP: it
// encodes a models.Content (BarA or BarB) to JSON or XML, and decodes a
// document of either format back into one. policy is the server-wide
// base transport policy; an encode request's tabbed or prolog field set
// to true turns that option on.
type TranscodeHandler struct {
	policy cargo.Policy
}

func NewTranscodeHandler(policy cargo.Policy) *TranscodeHandler {
	return &TranscodeHandler{policy: policy}
}

// ContentPayload is the JSON shape TranscodeHandler reads and writes for
// a models.Content value: exactly one of the subtype-specific fields is
// populated, selected by Type.
type ContentPayload struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	// BarA fields
	Text      string `json:"text,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`

	// BarB fields
	Count int64  `json:"count,omitempty"`
	Label string `json:"label,omitempty"`
}

func (p ContentPayload) toContent() (*models.Content, error) {
	c := models.NewContent()
	c.Type = p.Type
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, cargo.NewFault(cargo.BadValue, 0, 0, "malformed id %q: %v", p.ID, err)
		}
		c.ID = id
	}
	switch p.Type {
	case "BarA":
		body := &models.BarA{ID: c.ID, Text: p.Text}
		if p.CreatedAt != "" {
			t, err := time.Parse(cargo.TimeLayout, p.CreatedAt)
			if err != nil {
				return nil, cargo.NewFault(cargo.BadValue, 0, 0, "malformed createdAt %q: %v", p.CreatedAt, err)
			}
			body.CreatedAt = t
		}
		c.Body = body
	case "BarB":
		c.Body = &models.BarB{ID: c.ID, Count: p.Count, Label: p.Label}
	default:
		return nil, cargo.NewFault(cargo.InvalidObject, 0, 0, "unknown content type %q", p.Type)
	}
	return c, nil
}

func payloadFromContent(c *models.Content) ContentPayload {
	p := ContentPayload{Type: c.Type, ID: c.ID.String()}
	switch body := c.Body.(type) {
	case *models.BarA:
		p.Text = body.Text
		if !body.CreatedAt.IsZero() {
			p.CreatedAt = body.CreatedAt.Format(cargo.TimeLayout)
		}
	case *models.BarB:
		p.Count = body.Count
		p.Label = body.Label
	}
	return p
}

// EncodeRequest wraps the ContentPayload to encode plus an optional
// transport policy override.
type EncodeRequest struct {
	Content ContentPayload `json:"content"`
	Tabbed  bool           `json:"tabbed,omitempty"`
	Prolog  bool           `json:"prolog,omitempty"`
}

// EncodeResponse carries the serialized document.
type EncodeResponse struct {
	Document string `json:"document"`
}

// @Summary Encode a content payload
// @Description Serializes a BarA or BarB payload to JSON or XML
// @Tags transcode
// @Accept json
// @Produce json
// @Param format path string true "json or xml"
// @Param body body EncodeRequest true "content to encode"
// @Success 200 {object} EncodeResponse
// @Router /v1/encode/{format} [post]
func (h *TranscodeHandler) Encode(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]

	var req EncodeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := req.Content.toContent()
	if err != nil {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy := h.policy
	policy.Tabbed = policy.Tabbed || req.Tabbed
	policy.Prolog = policy.Prolog || req.Prolog

	id := cargo.Identity{Name: "content"}
	var doc string
	switch format {
	case "json":
		doc, err = wirejson.Marshal(c, id, policy)
	case "xml":
		doc, err = wirexml.Marshal(c, id, policy)
	default:
		RespondError(w, http.StatusNotFound, "unknown format "+format)
		return
	}
	if err != nil {
		logger.Warn("encode failed: %v", err)
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, EncodeResponse{Document: doc})
}

// DecodeRequest carries the raw document text to parse.
type DecodeRequest struct {
	Document string `json:"document"`
}

// @Summary Decode a content document
// @Description Parses a JSON or XML document into a BarA or BarB payload
// @Tags transcode
// @Accept json
// @Produce json
// @Param format path string true "json or xml"
// @Param body body DecodeRequest true "document to decode"
// @Success 200 {object} ContentPayload
// @Router /v1/decode/{format} [post]
func (h *TranscodeHandler) Decode(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]

	var req DecodeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := models.NewContent()
	id := cargo.Identity{Name: "content"}
	policy := h.policy

	var err error
	switch format {
	case "json":
		err = wirejson.Receive(req.Document, c, id, policy)
	case "xml":
		err = wirexml.Receive(req.Document, c, id, policy)
	default:
		RespondError(w, http.StatusNotFound, "unknown format "+format)
		return
	}
	if err != nil {
		logger.Warn("decode failed: %v", err)
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, payloadFromContent(c))
}
