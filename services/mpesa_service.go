package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// MpesaService submits bulk B2C disbursements to the M-Pesa gateway.
// Recipients are mobile money wallets addressed by MSISDN.
type MpesaService struct {
	baseURL   string
	apiKey    string
	apiSecret string
	shortCode string
	client    *http.Client
}

// NewMpesaService creates a new M-Pesa disbursement client configured
// from environment variables.
func NewMpesaService() *MpesaService {
	baseURL := os.Getenv("MPESA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.sandbox.mpesa-gateway.co.ke/v1/"
	}

	apiKey := os.Getenv("MPESA_API_KEY")
	apiSecret := os.Getenv("MPESA_API_SECRET")
	shortCode := os.Getenv("MPESA_SHORT_CODE")

	if apiKey == "" || apiSecret == "" || shortCode == "" {
		log.Printf("WARNING: M-Pesa credentials not fully configured:")
		if apiKey == "" {
			log.Printf("  - MPESA_API_KEY is missing")
		}
		if apiSecret == "" {
			log.Printf("  - MPESA_API_SECRET is missing")
		}
		if shortCode == "" {
			log.Printf("  - MPESA_SHORT_CODE is missing")
		}
	}

	return &MpesaService{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		shortCode: shortCode,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies this provider in logs and summaries.
func (s *MpesaService) Name() string {
	return "mpesa"
}

type mpesaBulkRequest struct {
	ShortCode  string          `json:"shortCode"`
	CallbackID string          `json:"callbackId,omitempty"`
	Items      []mpesaBulkItem `json:"items"`
}

type mpesaBulkItem struct {
	Msisdn    string  `json:"msisdn"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Name      string  `json:"name"`
	Remarks   string  `json:"remarks,omitempty"`
}

type mpesaBulkResponse struct {
	ConversationID string `json:"conversationId"`
	ResponseCode   int    `json:"responseCode"`
	ResponseDesc   string `json:"responseDesc"`
	Results        []struct {
		Reference     string `json:"reference"`
		ResultCode    int    `json:"resultCode"`
		ResultDesc    string `json:"resultDesc"`
		TransactionID string `json:"transactionId"`
		Pending       bool   `json:"pending"`
	} `json:"results"`
}

// SendBulk submits one bulk disbursement request and maps the gateway's
// per-item results. A non-2xx response before acceptance is a definite
// provider error; a transport failure is ambiguous because the request
// may have reached the gateway.
func (s *MpesaService) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	if s.apiKey == "" || s.apiSecret == "" || s.shortCode == "" {
		return nil, utils.NewProviderError(s.Name(), "missing credentials, set MPESA_API_KEY, MPESA_API_SECRET and MPESA_SHORT_CODE", true)
	}

	payload := mpesaBulkRequest{ShortCode: s.shortCode}
	for _, item := range items {
		payload.Items = append(payload.Items, mpesaBulkItem{
			Msisdn:    item.Destination,
			Amount:    item.Amount,
			Reference: item.Reference,
			Name:      item.Name,
			Remarks:   "JamboTip monthly payout",
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to marshal request: %v", err), true)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"b2c/bulk", bytes.NewBuffer(body))
	if err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to create request: %v", err), true)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("X-Api-Secret", s.apiSecret)

	log.Printf("MpesaService: submitting bulk disbursement of %d items", len(items))

	resp, err := s.client.Do(req)
	if err != nil {
		// A dial failure means the request never reached the gateway. Any
		// other transport error is ambiguous: the request may have been
		// accepted before the connection broke, so settlement callbacks
		// reconcile those rows later.
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("request failed: %v", err), isDialError(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to read response: %v", err), false)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewProviderError(s.Name(),
			fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, string(respBody)), resp.StatusCode < 500)
	}

	var bulkResp mpesaBulkResponse
	if err := json.Unmarshal(respBody, &bulkResp); err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to parse response: %v", err), false)
	}
	if bulkResp.ResponseCode != 0 {
		return nil, utils.NewProviderError(s.Name(),
			fmt.Sprintf("bulk request rejected: %d %s", bulkResp.ResponseCode, bulkResp.ResponseDesc), true)
	}

	results := make([]models.DisbursementResult, 0, len(bulkResp.Results))
	for _, item := range bulkResp.Results {
		results = append(results, models.DisbursementResult{
			Reference:     item.Reference,
			Success:       item.ResultCode == 0,
			ProviderTxnID: item.TransactionID,
			Pending:       item.Pending,
			Error:         nonZeroResultDesc(item.ResultCode, item.ResultDesc),
		})
	}
	return results, nil
}

func nonZeroResultDesc(code int, desc string) string {
	if code == 0 {
		return ""
	}
	if desc == "" {
		return fmt.Sprintf("result code %d", code)
	}
	return desc
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
