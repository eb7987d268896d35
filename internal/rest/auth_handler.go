package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sigloy-shop/internal/user"
)

type otpRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type otpResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Cooldown string `json:"cooldown"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Token       string `json:"token"`
}

type verifyResponse struct {
	Code   int       `json:"code"`
	Expire time.Time `json:"expire"`
	Access string    `json:"access"`
}

func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "phone number should be 11 chars.")
		return
	}

	lifetime, err := h.UserSvc.RequestOTP(r.Context(), req.PhoneNumber)
	var cooldown *user.CooldownError
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, otpResponse{
			Code:     http.StatusOK,
			Message:  "success.",
			Cooldown: strconv.Itoa(int(lifetime.Seconds())),
		})
	case errors.As(err, &cooldown):
		writeJSON(w, r, http.StatusTooManyRequests, throttledResponse{
			Code:          http.StatusTooManyRequests,
			Message:       "please wait before requesting a new OTP.",
			RemainingTime: int(cooldown.Remaining.Seconds()),
		})
	case errors.Is(err, user.ErrInvalidPhone):
		writeMessage(w, r, http.StatusBadRequest, "phone number should be 11 chars.")
	case errors.Is(err, user.ErrDeliveryFailed):
		writeMessage(w, r, http.StatusBadRequest, "something is wrong. please contact support.")
	default:
		writeInternal(w, r, "RequestOTP", err)
	}
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid phone number or token.")
		return
	}

	session, err := h.UserSvc.VerifyOTP(r.Context(), req.PhoneNumber, req.Token)
	switch {
	case err == nil:
		http.SetCookie(w, &http.Cookie{
			Name:     "access_token",
			Value:    session.AccessToken,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, r, http.StatusOK, verifyResponse{
			Code:   http.StatusOK,
			Expire: session.ExpiresAt,
			Access: session.AccessToken,
		})
	case errors.Is(err, user.ErrOTPExpired):
		writeMessage(w, r, http.StatusBadRequest, "token has expired.")
	case errors.Is(err, user.ErrInvalidOTP), errors.Is(err, user.ErrInvalidPhone):
		writeMessage(w, r, http.StatusBadRequest, "invalid phone number or token.")
	default:
		writeInternal(w, r, "VerifyOTP", err)
	}
}
