package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/order"

	"go.uber.org/zap"
)

const (
	OxapayName = "oxapay"

	oxapayResultSuccess = 100
	oxapayLifetime      = 60 // minutes, equal to ThrottleWindow
	oxapayFeePaidBy     = 1
	oxapayStatusPaid    = "Paid"
)

type OxapayConfig struct {
	MerchantKey string
	BaseURL     string
	CallbackURL string
	Timeout     time.Duration
}

type oxapayGateway struct {
	merchantKey string
	baseURL     string
	callbackURL string
	httpClient  *http.Client
}

func NewOxapayGateway(cfg OxapayConfig) Adapter {
	if cfg.MerchantKey == "" {
		logger.L().Warn("Oxapay merchant key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.oxapay.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &oxapayGateway{
		merchantKey: cfg.MerchantKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		callbackURL: cfg.CallbackURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type oxapayCreateRequest struct {
	Merchant       string `json:"merchant"`
	Amount         int64  `json:"amount"`
	LifeTime       int    `json:"lifeTime"`
	FeePaidByPayer int    `json:"feePaidByPayer"`
	ReturnURL      string `json:"returnUrl"`
	Description    string `json:"description"`
	OrderID        string `json:"orderId"`
}

type oxapayCreateResponse struct {
	Result  int        `json:"result"`
	Message string     `json:"message"`
	TrackID flexString `json:"trackId"`
	PayLink string     `json:"payLink"`
}

type oxapayInquiryRequest struct {
	Merchant string `json:"merchant"`
	TrackID  string `json:"trackId"`
}

type oxapayInquiryResponse struct {
	Result  int    `json:"result"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// flexString accepts a JSON string or number. Oxapay has sent track ids as both.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (g *oxapayGateway) CreatePayment(ctx context.Context, o *order.Order) (*CreatePaymentResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("provider", OxapayName),
		zap.Uint("order_id", o.ID),
		zap.Int64("amount", o.TotalPrice),
	)

	body := oxapayCreateRequest{
		Merchant:       g.merchantKey,
		Amount:         o.TotalPrice,
		LifeTime:       oxapayLifetime,
		FeePaidByPayer: oxapayFeePaidBy,
		ReturnURL:      g.callbackURL,
		Description:    fmt.Sprintf("User: %d for order: %d", o.UserID, o.ID),
		OrderID:        strconv.FormatUint(uint64(o.ID), 10),
	}

	log.Info("Sending payment request to Oxapay")

	raw, err := g.post(ctx, "/merchants/request", body)
	if err != nil {
		log.Error("Oxapay request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	var res oxapayCreateResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Error("Failed decoding Oxapay response", zap.Error(err))
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}

	if res.Result != oxapayResultSuccess || res.Message != "success" || res.TrackID == "" {
		log.Warn("Oxapay rejected payment request",
			zap.Int("result", res.Result),
			zap.String("message", res.Message),
		)
		return nil, fmt.Errorf("%w: result %d: %s", ErrGateway, res.Result, res.Message)
	}

	log.Info("Oxapay payment created", zap.String("track_id", string(res.TrackID)))

	return &CreatePaymentResult{
		TrackID: string(res.TrackID),
		PayLink: res.PayLink,
		Raw:     raw,
	}, nil
}

// Inquire reports Paid only for an explicit Paid status. Pending, expired and
// rejected payments all come back as not paid.
func (g *oxapayGateway) Inquire(ctx context.Context, trackID string) (*Inquiry, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("provider", OxapayName),
		zap.String("track_id", trackID),
	)

	raw, err := g.post(ctx, "/merchants/inquiry", oxapayInquiryRequest{
		Merchant: g.merchantKey,
		TrackID:  trackID,
	})
	if err != nil {
		log.Error("Oxapay inquiry failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	var res oxapayInquiryResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Error("Failed decoding Oxapay inquiry", zap.Error(err))
		return nil, fmt.Errorf("%w: decode inquiry: %v", ErrGateway, err)
	}

	paid := res.Result == oxapayResultSuccess && res.Status == oxapayStatusPaid
	log.Info("Oxapay inquiry completed",
		zap.Int("result", res.Result),
		zap.String("status", res.Status),
		zap.Bool("paid", paid),
	)

	return &Inquiry{Paid: paid, Raw: raw}, nil
}

func (g *oxapayGateway) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oxapay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oxapay returned status %d", resp.StatusCode)
	}

	return json.RawMessage(bodyBytes), nil
}
