package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	"sokofiti/internal/shared/biztime"
	sharedConfig "sokofiti/internal/shared/config"
	"sokofiti/internal/shared/logger"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	authPath      = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath   = "/mpesa/stkpush/v1/processrequest"
	stkQueryPath  = "/mpesa/stkpushquery/v1/query"
	defaultExpiry = 3599 * time.Second

	// Daraja returns this error code when the transaction is still in
	// flight and the query came too early.
	errCodeStillProcessing = "500.001.1001"
)

// TokenStore shares access tokens across instances. Implemented by
// cache.DarajaTokenStore; a nil store disables sharing.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, ttl time.Duration) error
}

// DarajaGateway talks to Safaricom's Daraja API. It implements
// paymentgateway.STKGateway.
type DarajaGateway struct {
	cfg        *sharedConfig.MpesaConfig
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     logger.Interface
}

// NewDarajaGateway builds the gateway for the environment named in cfg.
// store may be nil.
func NewDarajaGateway(cfg *sharedConfig.MpesaConfig, store TokenStore, log logger.Interface) *DarajaGateway {
	baseURL := sandboxBaseURL
	if cfg.IsProduction() {
		baseURL = productionBaseURL
	}
	return newGateway(cfg, store, log, baseURL)
}

func newGateway(cfg *sharedConfig.MpesaConfig, store TokenStore, log logger.Interface, baseURL string) *DarajaGateway {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	g := &DarajaGateway{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
	g.tokens = oauth2.ReuseTokenSource(nil, &darajaTokenSource{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      store,
		logger:     log,
	})
	return g
}

// darajaTokenSource fetches OAuth client-credentials tokens from Daraja.
// ReuseTokenSource handles in-process caching; the optional store shares
// tokens across processes.
type darajaTokenSource struct {
	cfg        *sharedConfig.MpesaConfig
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	logger     logger.Interface
}

type darajaAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

func (s *darajaTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.httpClient.Timeout)
	defer cancel()

	if s.store != nil {
		cached, err := s.store.Get(ctx)
		if err != nil {
			s.logger.Warnw("daraja token cache read failed", "error", err)
		} else if cached != "" {
			// The cache TTL undercuts the real expiry, so treat the
			// cached token as fresh for a short in-process window.
			return &oauth2.Token{AccessToken: cached, Expiry: time.Now().Add(time.Minute)}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+authPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.SetBasicAuth(s.cfg.ConsumerKey, s.cfg.ConsumerSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daraja auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daraja auth returned status %d: %s", resp.StatusCode, body)
	}

	var auth darajaAuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if auth.AccessToken == "" {
		return nil, fmt.Errorf("daraja auth response has no access token")
	}

	lifetime := defaultExpiry
	if secs, err := strconv.Atoi(auth.ExpiresIn); err == nil && secs > 0 {
		lifetime = time.Duration(secs) * time.Second
	}

	if s.store != nil {
		// Shave a minute off so a cached token never outlives the real one.
		if err := s.store.Save(ctx, auth.AccessToken, lifetime-time.Minute); err != nil {
			s.logger.Warnw("daraja token cache write failed", "error", err)
		}
	}

	return &oauth2.Token{
		AccessToken: auth.AccessToken,
		Expiry:      time.Now().Add(lifetime - 30*time.Second),
	}, nil
}

// stkPassword is base64(shortcode + passkey + timestamp), per the Daraja spec.
func (g *DarajaGateway) stkPassword(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(g.cfg.ShortCode + g.cfg.Passkey + timestamp))
}

type darajaErrorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type stkPushAPIResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// RequestSTKPush asks Daraja to prompt the payer's phone.
func (g *DarajaGateway) RequestSTKPush(ctx context.Context, req paymentgateway.STKPushRequest) (*paymentgateway.STKPushResponse, error) {
	timestamp := biztime.DarajaTimestamp(time.Now())

	payload := map[string]any{
		"BusinessShortCode": g.cfg.ShortCode,
		"Password":          g.stkPassword(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            req.Amount,
		"PartyA":            req.PhoneNumber,
		"PartyB":            g.cfg.ShortCode,
		"PhoneNumber":       req.PhoneNumber,
		"CallBackURL":       g.cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	body, err := g.post(ctx, stkPushPath, payload)
	if err != nil {
		return nil, err
	}

	var apiResp stkPushAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode stk push response: %w", err)
	}
	if apiResp.ResponseCode != "0" {
		g.logger.Warnw("stk push rejected by gateway",
			"response_code", apiResp.ResponseCode,
			"description", apiResp.ResponseDescription)
		return nil, fmt.Errorf("%w: response code %s: %s",
			payment.ErrGatewayUnavailable, apiResp.ResponseCode, apiResp.ResponseDescription)
	}

	return &paymentgateway.STKPushResponse{
		MerchantRequestID:   apiResp.MerchantRequestID,
		CheckoutRequestID:   apiResp.CheckoutRequestID,
		ResponseCode:        apiResp.ResponseCode,
		ResponseDescription: apiResp.ResponseDescription,
		CustomerMessage:     apiResp.CustomerMessage,
	}, nil
}

type stkQueryAPIResponse struct {
	ResponseCode      string `json:"ResponseCode"`
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
}

// QueryStatus asks Daraja for the outcome of an earlier push. A query that
// arrives before the payer has responded maps to the pending result code.
func (g *DarajaGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*paymentgateway.StatusQueryResponse, error) {
	timestamp := biztime.DarajaTimestamp(time.Now())

	payload := map[string]any{
		"BusinessShortCode": g.cfg.ShortCode,
		"Password":          g.stkPassword(timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	body, err := g.postRaw(ctx, stkQueryPath, payload)
	if err != nil {
		return nil, err
	}

	// An early query fails with a dedicated error code rather than a
	// result; surface it as still pending so the caller keeps waiting.
	var apiErr darajaErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorCode == errCodeStillProcessing {
		return &paymentgateway.StatusQueryResponse{
			CheckoutRequestID: checkoutRequestID,
			ResultCode:        1037,
			ResultDesc:        apiErr.ErrorMessage,
		}, nil
	}
	if apiErr.ErrorCode != "" {
		return nil, fmt.Errorf("%w: error code %s: %s",
			payment.ErrGatewayUnavailable, apiErr.ErrorCode, apiErr.ErrorMessage)
	}

	var apiResp stkQueryAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode status query response: %w", err)
	}

	resultCode, err := strconv.Atoi(apiResp.ResultCode)
	if err != nil {
		return nil, fmt.Errorf("unexpected result code %q in status query response", apiResp.ResultCode)
	}

	return &paymentgateway.StatusQueryResponse{
		ResponseCode:      apiResp.ResponseCode,
		ResultCode:        resultCode,
		ResultDesc:        apiResp.ResultDesc,
		MerchantRequestID: apiResp.MerchantRequestID,
		CheckoutRequestID: apiResp.CheckoutRequestID,
	}, nil
}

// post sends an authenticated JSON request and fails on non-200 answers.
func (g *DarajaGateway) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, status, err := g.do(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var apiErr darajaErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: error code %s: %s",
				payment.ErrGatewayUnavailable, apiErr.ErrorCode, apiErr.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: status %d: %s", payment.ErrGatewayUnavailable, status, body)
	}
	return body, nil
}

// postRaw sends an authenticated JSON request and returns the body for any
// status, since the query endpoint reports still-processing as an error body.
func (g *DarajaGateway) postRaw(ctx context.Context, path string, payload any) ([]byte, error) {
	body, _, err := g.do(ctx, path, payload)
	return body, err
}

func (g *DarajaGateway) do(ctx context.Context, path string, payload any) ([]byte, int, error) {
	token, err := g.tokens.Token()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
