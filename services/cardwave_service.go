package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// CardwaveService is the card-rail fallback disbursement provider, used
// when the mobile money gateway rejects a batch outright. Same bulk
// contract: per-item results keyed by our payout reference.
type CardwaveService struct {
	baseURL string
	secret  string
	client  *http.Client
}

// NewCardwaveService creates a new Cardwave client configured from
// environment variables.
func NewCardwaveService() *CardwaveService {
	baseURL := os.Getenv("CARDWAVE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.sandbox.cardwave.africa/disbursements/"
	}

	secret := os.Getenv("CARDWAVE_SECRET")
	if secret == "" {
		log.Printf("WARNING: CARDWAVE_SECRET is missing, Cardwave fallback disabled")
	}

	return &CardwaveService{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies this provider in logs and summaries.
func (s *CardwaveService) Name() string {
	return "cardwave"
}

type cardwaveTransfer struct {
	Account   string  `json:"account"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reference string  `json:"reference"`
	Holder    string  `json:"holder"`
}

type cardwaveBulkResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Transfers []struct {
		Reference  string `json:"reference"`
		Status     string `json:"status"`
		TransferID string `json:"transferId"`
		Error      string `json:"error"`
	} `json:"transfers"`
}

// SendBulk submits one bulk transfer request and maps per-item outcomes.
func (s *CardwaveService) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	if s.secret == "" {
		return nil, utils.NewProviderError(s.Name(), "missing credentials, set CARDWAVE_SECRET", true)
	}

	transfers := make([]cardwaveTransfer, 0, len(items))
	for _, item := range items {
		transfers = append(transfers, cardwaveTransfer{
			Account:   item.Destination,
			Amount:    item.Amount,
			Currency:  utils.CurrencyCode,
			Reference: item.Reference,
			Holder:    item.Name,
		})
	}

	body, err := json.Marshal(map[string]interface{}{"transfers": transfers})
	if err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to marshal request: %v", err), true)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"bulk", bytes.NewBuffer(body))
	if err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to create request: %v", err), true)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.secret)

	log.Printf("CardwaveService: submitting bulk transfer of %d items", len(items))

	resp, err := s.client.Do(req)
	if err != nil {
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

	var bulkResp cardwaveBulkResponse
	if err := json.Unmarshal(respBody, &bulkResp); err != nil {
		return nil, utils.NewProviderError(s.Name(), fmt.Sprintf("failed to parse response: %v", err), false)
	}
	if bulkResp.Status != "accepted" {
		return nil, utils.NewProviderError(s.Name(),
			fmt.Sprintf("bulk request rejected: %s", bulkResp.Message), true)
	}

	results := make([]models.DisbursementResult, 0, len(bulkResp.Transfers))
	for _, transfer := range bulkResp.Transfers {
		results = append(results, models.DisbursementResult{
			Reference:     transfer.Reference,
			Success:       transfer.Status == "completed" || transfer.Status == "processing",
			ProviderTxnID: transfer.TransferID,
			Pending:       transfer.Status == "processing",
			Error:         transfer.Error,
		})
	}
	return results, nil
}
