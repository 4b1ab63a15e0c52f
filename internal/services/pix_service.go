// internal/services/pix_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanz/sabores-backend/internal/config"
	"github.com/urbanz/sabores-backend/internal/i18n"
	"github.com/urbanz/sabores-backend/internal/utils"
)

// PixService talks to the third-party PIX gateway: OAuth token, charge
// creation, QR payload and status. All PIX protocol logic lives on the
// gateway side; this client only moves JSON and keeps the access token warm.
type PixService struct {
	cfg        config.PixConfig
	httpClient *http.Client
	retry      utils.RetryPolicy

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

// PixCharge is the payment record returned to the storefront after a charge
// is created.
type PixCharge struct {
	TxID        string `json:"txid"`
	LocationID  int64  `json:"location_id"`
	QRCode      string `json:"qr_code"`
	QRCodeImage string `json:"qr_code_image,omitempty"`
}

// Gateway charge states. CONCLUIDA means the payer settled the charge.
const (
	ChargeStatusActive    = "ATIVA"
	ChargeStatusConcluded = "CONCLUIDA"
)

// GatewayError carries a translation key chosen from the transport failure
// class, so handlers can surface a useful message instead of a raw netop
// string.
type GatewayError struct {
	MessageKey string
	Err        error
}

func (e *GatewayError) Error() string { return e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }

func NewPixService(cfg config.PixConfig) *PixService {
	return &PixService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		retry: utils.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   time.Duration(cfg.RetryBaseMs) * time.Millisecond,
		},
		now: time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached access token, fetching a fresh one (with the retry
// policy) when the cached one is absent or about to expire. Concurrent
// callers may race to refresh; the result is an extra token request, never a
// broken token.
func (s *PixService) token(ctx context.Context) (string, error) {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	if s.accessToken != "" && s.now().Before(s.tokenExpiry) {
		return s.accessToken, nil
	}

	var tok tokenResponse
	err := s.retry.Do(ctx, func() error {
		form := url.Values{"grant_type": {"client_credentials"}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		return s.doJSON(req, &tok)
	})
	if err != nil {
		return "", s.wrapGatewayError(fmt.Errorf("token acquisition failed: %w", err))
	}

	s.accessToken = tok.AccessToken
	// Renew 30s early so in-flight calls never carry a token that expires
	// mid-request.
	s.tokenExpiry = s.now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return s.accessToken, nil
}

type createChargeResponse struct {
	TxID string `json:"txid"`
	Loc  struct {
		ID int64 `json:"id"`
	} `json:"loc"`
	Status string `json:"status"`
}

type qrCodeResponse struct {
	QRCode       string `json:"qrcode"`
	ImagemQRCode string `json:"imagemQrcode"`
}

type chargeStatusResponse struct {
	TxID   string `json:"txid"`
	Status string `json:"status"`
}

// CreateCharge creates a PIX charge for the given amount and fetches its QR
// payload. Charge creation is retried under the shared policy; the QR call
// is single-attempt.
func (s *PixService) CreateCharge(ctx context.Context, amount float64, payerName string) (*PixCharge, error) {
	accessToken, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"calendario": map[string]interface{}{"expiracao": 3600},
		"valor":      map[string]string{"original": fmt.Sprintf("%.2f", amount)},
		"chave":      s.cfg.PixKey,
	}
	if payerName != "" {
		body["solicitacaoPagador"] = "Pedido de " + payerName
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var created createChargeResponse
	err = s.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.cfg.BaseURL+"/v2/cob", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Content-Type", "application/json")

		return s.doJSON(req, &created)
	})
	if err != nil {
		return nil, s.wrapGatewayError(fmt.Errorf("charge creation failed: %w", err))
	}

	charge := &PixCharge{
		TxID:       created.TxID,
		LocationID: created.Loc.ID,
	}

	qr, err := s.fetchQRCode(ctx, accessToken, created.Loc.ID)
	if err != nil {
		// The charge exists; return it without the QR payload rather than
		// losing the txid.
		logrus.WithError(err).WithField("txid", created.TxID).Warn("QR code fetch failed")
		return charge, nil
	}
	charge.QRCode = qr.QRCode
	charge.QRCodeImage = qr.ImagemQRCode

	return charge, nil
}

// fetchQRCode is single-attempt per the outbound-call policy.
func (s *PixService) fetchQRCode(ctx context.Context, accessToken string, locationID int64) (*qrCodeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/loc/%d/qrcode", s.cfg.BaseURL, locationID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var qr qrCodeResponse
	if err := s.doJSON(req, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// GetChargeStatus polls the gateway for the current charge state.
// Single-attempt: poll callers retry on their own schedule.
func (s *PixService) GetChargeStatus(ctx context.Context, txid string) (string, error) {
	accessToken, err := s.token(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/v2/cob/"+url.PathEscape(txid), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var status chargeStatusResponse
	if err := s.doJSON(req, &status); err != nil {
		return "", s.wrapGatewayError(fmt.Errorf("status check failed: %w", err))
	}
	return status.Status, nil
}

// IsPaid maps the gateway's charge state onto the order payment state.
func IsPaid(status string) bool {
	return status == ChargeStatusConcluded
}

func (s *PixService) doJSON(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// wrapGatewayError classifies transport failures into user-facing message
// keys. Anything unrecognized falls back to the generic gateway failure.
func (s *PixService) wrapGatewayError(err error) error {
	key := i18n.KeyPaymentGatewayFail

	var netErr net.Error
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		key = i18n.KeyPaymentTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		key = i18n.KeyPaymentTimeout
	case errors.As(err, &dnsErr):
		key = i18n.KeyPaymentUnreachable
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EHOSTUNREACH):
		key = i18n.KeyPaymentUnreachable
	}

	return &GatewayError{MessageKey: key, Err: err}
}
