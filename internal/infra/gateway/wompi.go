package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sandboxBaseURL    = "https://sandbox.wompi.co/v1"
	productionBaseURL = "https://production.wompi.co/v1"
	checkoutBaseURL   = "https://checkout.wompi.co/l/"
)

var ErrMissingLinkID = errors.New("gateway response without payment link id")

type PaymentLinkRequest struct {
	OrderID  int64
	Amount   float64
	Currency string
}

type PaymentLink struct {
	// 決済リンクID（シミュレーション時は TRX-<uuid>）
	Reference   string
	CheckoutURL string
	Raw         []byte
	Simulated   bool
}

type WompiOptions struct {
	Env         string // sandbox/production
	PrivateKey  string // 空ならシミュレーション
	RedirectURL string
	Timeout     time.Duration

	// テスト用にAPIの向き先を差し替える
	BaseURL string
}

// WompiClient は決済リンクを作るだけの薄いクライアント
type WompiClient struct {
	httpClient  *http.Client
	baseURL     string
	privateKey  string
	redirectURL string
	logger      *zap.Logger
}

func NewWompiClient(opts WompiOptions, logger *zap.Logger) *WompiClient {
	base := opts.BaseURL
	if base == "" {
		base = sandboxBaseURL
		if opts.Env == "production" {
			base = productionBaseURL
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WompiClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     base,
		privateKey:  opts.PrivateKey,
		redirectURL: opts.RedirectURL,
		logger:      logger,
	}
}

type createLinkBody struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SingleUse       bool   `json:"single_use"`
	CollectShipping bool   `json:"collect_shipping"`
	AmountInCents   int64  `json:"amount_in_cents"`
	Currency        string `json:"currency"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	SKU             string `json:"sku"`
}

type createLinkResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *WompiClient) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (PaymentLink, error) {
	if c.privateKey == "" {
		ref := "TRX-" + uuid.NewString()
		c.logger.Info("simulated payment link", zap.Int64("order_id", req.OrderID), zap.String("reference", ref))
		return PaymentLink{
			Reference:   ref,
			CheckoutURL: checkoutBaseURL + ref,
			Raw:         []byte(`{"simulated":true}`),
			Simulated:   true,
		}, nil
	}

	body := createLinkBody{
		Name:            fmt.Sprintf("Order #%d", req.OrderID),
		Description:     "Restaurant order payment",
		SingleUse:       true,
		CollectShipping: false,
		AmountInCents:   int64(math.Round(req.Amount * 100)),
		Currency:        req.Currency,
		RedirectURL:     c.redirectFor(req.OrderID),
		SKU:             fmt.Sprintf("order_%d", req.OrderID),
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return PaymentLink{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_links", bytes.NewReader(buf))
	if err != nil {
		return PaymentLink{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.privateKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return PaymentLink{}, fmt.Errorf("wompi request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return PaymentLink{}, fmt.Errorf("wompi read: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return PaymentLink{}, fmt.Errorf("wompi status %d", res.StatusCode)
	}

	var parsed createLinkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return PaymentLink{}, fmt.Errorf("wompi decode: %w", err)
	}
	if parsed.Data.ID == "" {
		return PaymentLink{}, ErrMissingLinkID
	}

	return PaymentLink{
		Reference:   parsed.Data.ID,
		CheckoutURL: checkoutBaseURL + parsed.Data.ID,
		Raw:         raw,
	}, nil
}

// 戻り先URLに注文IDを付ける
func (c *WompiClient) redirectFor(orderID int64) string {
	if c.redirectURL == "" {
		return ""
	}
	u, err := url.Parse(c.redirectURL)
	if err != nil {
		return c.redirectURL
	}
	q := u.Query()
	q.Set("id", strconv.FormatInt(orderID, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
