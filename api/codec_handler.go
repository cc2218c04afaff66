package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"weave/codec/base64codec"
	"weave/codec/hexcodec"
	"weave/logger"
)

// CodecHandler exposes the hex and base64 byte transports over HTTP,
// for clients that want the codecs without going through a full
// JSON/XML document.
type CodecHandler struct{}

func NewCodecHandler() *CodecHandler { return &CodecHandler{} }

// CodecRequest carries the payload for a codec encode/decode call. Data
// is the raw input: bytes to encode, or text to decode.
type CodecRequest struct {
	Data string `json:"data"`
}

// CodecResponse carries the codec's output.
type CodecResponse struct {
	Data string `json:"data"`
}

// @Summary Encode or decode bytes with hex or base64
// @Description Round-trips a payload through the hex or base64 transport
// @Tags codec
// @Accept json
// @Produce json
// @Param transport path string true "hex or base64"
// @Param direction path string true "encode or decode"
// @Param body body CodecRequest true "payload"
// @Success 200 {object} CodecResponse
// @Router /v1/codec/{transport}/{direction} [post]
func (h *CodecHandler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	transport := vars["transport"]
	direction := vars["direction"]

	var req CodecRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch transport {
	case "hex":
		h.handleHex(w, direction, req.Data)
	case "base64":
		h.handleBase64(w, direction, req.Data)
	default:
		RespondError(w, http.StatusNotFound, "unknown transport "+transport)
	}
}

func (h *CodecHandler) handleHex(w http.ResponseWriter, direction, data string) {
	switch direction {
	case "encode":
		RespondJSON(w, http.StatusOK, CodecResponse{Data: hexcodec.Encode([]byte(data))})
	case "decode":
		b, err := hexcodec.Decode(data, -1)
		if err != nil {
			logger.Warn("codec hex decode failed: %v", err)
			RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondJSON(w, http.StatusOK, CodecResponse{Data: string(b)})
	default:
		RespondError(w, http.StatusNotFound, "unknown direction "+direction)
	}
}

func (h *CodecHandler) handleBase64(w http.ResponseWriter, direction, data string) {
	switch direction {
	case "encode":
		RespondJSON(w, http.StatusOK, CodecResponse{Data: base64codec.Encode([]byte(data))})
	case "decode":
		b, err := base64codec.Decode(data)
		if err != nil {
			logger.Warn("codec base64 decode failed: %v", err)
			RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondJSON(w, http.StatusOK, CodecResponse{Data: string(b)})
	default:
		RespondError(w, http.StatusNotFound, "unknown direction "+direction)
	}
}
