package rest

import (
	"net/http"

	"sigloy-shop/internal/logger"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const msgSupport = "something is wrong. please call website support."

type messageResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type throttledResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	RemainingTime int    `json:"remaining_time"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, messageResponse{Code: status, Message: msg})
}

// writeInternal logs err and answers with the generic support message.
func writeInternal(w http.ResponseWriter, r *http.Request, method string, err error) {
	logger.FromCtx(r.Context()).Error("request failed",
		zap.String("layer", "handler"),
		zap.String("method", method),
		zap.Error(err),
	)
	writeMessage(w, r, http.StatusInternalServerError, msgSupport)
}

func decode(r *http.Request, v any) error {
	return render.DecodeJSON(r.Body, v)
}
