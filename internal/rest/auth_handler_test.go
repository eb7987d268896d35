package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"sigloy-shop/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_RequestOTP(t *testing.T) {
	tests := []struct {
		name       string
		lifetime   time.Duration
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Success",
			lifetime:   2 * time.Minute,
			wantStatus: http.StatusOK,
			wantBody:   `{"code":200,"message":"success.","cooldown":"120"}`,
		},
		{
			name:       "Cooldown",
			err:        &user.CooldownError{Remaining: 75 * time.Second},
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `{"code":429,"message":"please wait before requesting a new OTP.","remaining_time":75}`,
		},
		{
			name:       "InvalidPhone",
			err:        user.ErrInvalidPhone,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":400,"message":"phone number should be 11 chars."}`,
		},
		{
			name:       "DeliveryFailed",
			err:        fmt.Errorf("%w: sms down", user.ErrDeliveryFailed),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":400,"message":"something is wrong. please contact support."}`,
		},
		{
			name:       "Internal",
			err:        errDB,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":500,"message":"something is wrong. please call website support."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.user.On("RequestOTP", mock.Anything, "09121234567").Return(tt.lifetime, tt.err)

			w := do(router, http.MethodPost, "/auth/otp/", `{"phone_number":"09121234567"}`, false)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			m.user.AssertExpectations(t)
		})
	}

	t.Run("MalformedBody", func(t *testing.T) {
		router, m := newTestRouter(t)
		w := do(router, http.MethodPost, "/auth/otp/", `{`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.user.AssertNotCalled(t, "RequestOTP", mock.Anything, mock.Anything)
	})
}

func TestHandler_VerifyOTP(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, m := newTestRouter(t)
		expires := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
		m.user.On("VerifyOTP", mock.Anything, "09121234567", "1234").Return(&user.Session{
			User:        user.User{ID: 1, PhoneNumber: "09121234567"},
			AccessToken: "jwt-token",
			ExpiresAt:   expires,
		}, nil)

		w := do(router, http.MethodPost, "/auth/verify/", `{"phone_number":"09121234567","token":"1234"}`, false)

		require.Equal(t, http.StatusOK, w.Code)
		var body verifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 200, body.Code)
		assert.Equal(t, "jwt-token", body.Access)
		assert.True(t, expires.Equal(body.Expire))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"Expired", user.ErrOTPExpired, http.StatusBadRequest, "token has expired."},
		{"Invalid", user.ErrInvalidOTP, http.StatusBadRequest, "invalid phone number or token."},
		{"Internal", errDB, http.StatusInternalServerError, msgSupport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.user.On("VerifyOTP", mock.Anything, "09121234567", "0000").Return(nil, tt.err)

			w := do(router, http.MethodPost, "/auth/verify/", `{"phone_number":"09121234567","token":"0000"}`, false)

			assert.Equal(t, tt.wantCode, w.Code)
			var body messageResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}
