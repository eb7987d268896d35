package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sigloy-shop/internal/logger"

	"go.uber.org/zap"
)

const kavenegarBaseURL = "https://api.kavenegar.com"

type KavenegarSender struct {
	apiKey     string
	template   string
	baseURL    string
	httpClient *http.Client
}

func NewKavenegarSender(apiKey, template string, timeout time.Duration) *KavenegarSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KavenegarSender{
		apiKey:     apiKey,
		template:   template,
		baseURL:    kavenegarBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send uses the verify/lookup template endpoint. Any non-200 answer is a
// delivery failure.
func (k *KavenegarSender) Send(ctx context.Context, phone, code string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("provider", "kavenegar"),
		zap.String("phone", phone),
	)

	form := url.Values{
		"receptor": {"+98" + phone},
		"token":    {code},
		"template": {k.template},
	}
	endpoint := fmt.Sprintf("%s/v1/%s/verify/lookup.json", k.baseURL, k.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		log.Error("kavenegar request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("kavenegar returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	log.Info("otp sms sent")
	return nil
}
