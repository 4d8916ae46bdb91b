package services

import (
	"fmt"
	"log"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// PayoutProcessingService drives pending payout records through bulk
// disbursement. State machine per payout:
// pending -> processing -> {completed | failed}; failed -> pending only
// via an explicit retry request.
type PayoutProcessingService struct {
	payoutStore        PayoutStore
	waiterStore        WaiterStore
	restaurantStore    RestaurantStore
	provider           DisbursementProvider
	notifier           *NotificationService
	calculationService *PayoutCalculationService
}

// NewPayoutProcessingService creates a new payout processing service
func NewPayoutProcessingService(
	payoutStore PayoutStore,
	waiterStore WaiterStore,
	restaurantStore RestaurantStore,
	provider DisbursementProvider,
	notifier *NotificationService,
	calculationService *PayoutCalculationService,
) *PayoutProcessingService {
	return &PayoutProcessingService{
		payoutStore:        payoutStore,
		waiterStore:        waiterStore,
		restaurantStore:    restaurantStore,
		provider:           provider,
		notifier:           notifier,
		calculationService: calculationService,
	}
}

// claimedPayout pairs a claimed payout with the disbursement reference it
// was claimed under.
type claimedPayout struct {
	payout    models.Payout
	reference string
}

// ProcessPayouts selects pending payouts (scoped by restaurant or an
// explicit id list), claims each row with an atomic conditional update,
// partitions the claims into waiter and group batches, submits one bulk
// disbursement call per batch and applies every per-item result
// individually. One bad recipient never aborts its batch. DryRun runs the
// same path against a simulated always-successful provider without
// contacting the external gateway or sending notifications; it still
// mutates payout statuses.
func (s *PayoutProcessingService) ProcessPayouts(req *models.ProcessPayoutsRequest) (*models.ProcessingSummary, error) {
	if req.RestaurantID == "" && len(req.PayoutIDs) == 0 {
		return nil, utils.NewValidationError("either restaurantId or payoutIds is required")
	}

	var pending []models.Payout
	var err error
	if len(req.PayoutIDs) > 0 {
		pending, err = s.payoutStore.GetPendingByIDs(req.PayoutIDs)
	} else {
		pending, err = s.payoutStore.GetPendingByRestaurant(req.RestaurantID)
	}
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve pending payouts")
	}

	summary := &models.ProcessingSummary{
		Total:  len(pending),
		Errors: []string{},
		DryRun: req.DryRun,
	}
	if len(pending) == 0 {
		summary.Success = true
		return summary, nil
	}

	// Claim rows before dispatching so a concurrent run over the same
	// restaurant cannot double-submit a payout.
	var waiterBatch, groupBatch []claimedPayout
	for _, payout := range pending {
		reference := utils.GeneratePayoutReference(payout.ID)
		claimed, err := s.payoutStore.ClaimPayout(payout.ID, reference)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %v", payout.ID, err))
			continue
		}
		if !claimed {
			summary.Skipped++
			continue
		}

		cp := claimedPayout{payout: payout, reference: reference}
		if payout.PayoutType == utils.PayoutTypeWaiter {
			waiterBatch = append(waiterBatch, cp)
		} else {
			groupBatch = append(groupBatch, cp)
		}
	}

	provider := s.provider
	if req.DryRun {
		provider = simulatedProvider{}
	}

	s.processBatch(waiterBatch, provider, req.DryRun, summary)
	s.processBatch(groupBatch, provider, req.DryRun, summary)

	summary.Success = len(summary.Errors) == 0
	log.Printf("ProcessPayouts: total=%d processed=%d failed=%d skipped=%d dryRun=%v",
		summary.Total, summary.Processed, summary.Failed, summary.Skipped, summary.DryRun)
	return summary, nil
}

// processBatch resolves destinations, submits one bulk call and applies
// per-item results. Items without a disbursement account fail immediately
// and independently of the rest of the batch.
func (s *PayoutProcessingService) processBatch(batch []claimedPayout, provider DisbursementProvider, dryRun bool, summary *models.ProcessingSummary) {
	if len(batch) == 0 {
		return
	}

	now := time.Now().UTC()
	var items []models.DisbursementItem
	submitted := make(map[string]claimedPayout)

	for _, cp := range batch {
		destination := s.resolveDestination(&cp.payout)
		if destination == "" {
			accErr := utils.NewMissingDisbursementAccountError(cp.payout.RecipientName)
			if err := s.payoutStore.MarkFailed(cp.payout.ID, accErr.Message, now); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %v", cp.payout.ID, err))
				continue
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %s", cp.payout.ID, accErr.Message))
			if !dryRun {
				s.notifyFailed(&cp.payout, accErr.Message)
			}
			continue
		}

		items = append(items, models.DisbursementItem{
			Reference:   cp.reference,
			Destination: destination,
			Amount:      cp.payout.Amount,
			Name:        cp.payout.RecipientName,
		})
		submitted[cp.reference] = cp
	}

	if len(items) == 0 {
		return
	}

	results, attempts, err := sendBulkAudited(provider, items)
	for _, attempt := range attempts {
		summary.Providers = append(summary.Providers, attempt.Provider)
	}
	if err != nil {
		s.handleProviderFailure(err, submitted, summary)
		return
	}

	resolved := make(map[string]bool)
	for _, result := range results {
		cp, ok := submitted[result.Reference]
		if !ok {
			log.Printf("processBatch: provider returned unknown reference %s", result.Reference)
			continue
		}
		resolved[result.Reference] = true

		switch {
		case result.Success && result.Pending:
			// Accepted but not settled: the row stays processing until
			// the provider's settlement callback arrives.
			summary.Processed++
			summary.TotalAmount = utils.Round(summary.TotalAmount + cp.payout.Amount)
			log.Printf("processBatch: payout %d accepted, awaiting settlement callback", cp.payout.ID)
		case result.Success:
			txnID := result.ProviderTxnID
			if txnID == "" {
				txnID = cp.reference
			}
			if err := s.payoutStore.MarkCompleted(cp.payout.ID, txnID, now); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %v", cp.payout.ID, err))
				continue
			}
			summary.Processed++
			summary.TotalAmount = utils.Round(summary.TotalAmount + cp.payout.Amount)
			if !dryRun {
				s.notifyProcessed(&cp.payout, txnID)
			}
		default:
			reason := result.Error
			if reason == "" {
				reason = "disbursement rejected by provider"
			}
			if err := s.payoutStore.MarkFailed(cp.payout.ID, reason, now); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %v", cp.payout.ID, err))
				continue
			}
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %s", cp.payout.ID, reason))
			if !dryRun {
				s.notifyFailed(&cp.payout, reason)
			}
		}
	}

	// References the provider never answered stay processing and are
	// reconciled by the settlement callback.
	for reference, cp := range submitted {
		if !resolved[reference] {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("payout %d: no provider result for %s, awaiting callback", cp.payout.ID, reference))
		}
	}
}

// handleProviderFailure reconciles claimed rows after the bulk call itself
// failed. A definite rejection releases the claims back to pending; an
// ambiguous transport failure leaves rows processing for callback or
// manual reconciliation, since the money may already be moving.
func (s *PayoutProcessingService) handleProviderFailure(err error, submitted map[string]claimedPayout, summary *models.ProcessingSummary) {
	provErr, ok := err.(*utils.ProviderError)
	release := ok && provErr.Definite

	for _, cp := range submitted {
		if release {
			if releaseErr := s.payoutStore.ReleaseClaim(cp.payout.ID); releaseErr != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("payout %d: %v", cp.payout.ID, releaseErr))
			}
		}
	}

	if release {
		summary.Errors = append(summary.Errors, fmt.Sprintf("bulk disbursement rejected, %d payouts released to pending: %v", len(submitted), err))
	} else {
		summary.Errors = append(summary.Errors, fmt.Sprintf("bulk disbursement outcome unknown, %d payouts left processing for reconciliation: %v", len(submitted), err))
	}
}

// HandleDisbursementCallback applies an asynchronous settlement result
// from the provider. Idempotent: a duplicate callback for an already
// terminal payout is a no-op, not an error.
func (s *PayoutProcessingService) HandleDisbursementCallback(req *models.DisbursementCallbackRequest) (*models.Payout, error) {
	payout, err := s.payoutStore.GetByReference(req.Reference)
	if err != nil {
		return nil, err
	}

	if payout.Status == utils.PayoutStatusCompleted || payout.Status == utils.PayoutStatusFailed {
		log.Printf("HandleDisbursementCallback: payout %d already %s, ignoring duplicate callback", payout.ID, payout.Status)
		return payout, nil
	}

	now := time.Now().UTC()
	if req.ResultCode == 0 {
		txnID := req.ProviderTxnID
		if txnID == "" {
			txnID = req.Reference
		}
		if err := s.payoutStore.MarkCompleted(payout.ID, txnID, now); err != nil {
			return nil, utils.NewInternalError("Failed to complete payout")
		}
		payout.Status = utils.PayoutStatusCompleted
		payout.TransactionRef = txnID
		payout.ProcessedAt = &now
		s.notifyProcessed(payout, txnID)
		return payout, nil
	}

	reason := req.ResultDesc
	if reason == "" {
		reason = fmt.Sprintf("provider result code %d", req.ResultCode)
	}
	if err := s.payoutStore.MarkFailed(payout.ID, reason, now); err != nil {
		return nil, utils.NewInternalError("Failed to record payout failure")
	}
	payout.Status = utils.PayoutStatusFailed
	payout.FailureReason = reason
	payout.ProcessedAt = &now
	s.notifyFailed(payout, reason)
	return payout, nil
}

// RetryFailedPayouts resets the selected failed payouts to pending,
// clearing their prior transaction references, then resubmits them
// through the normal processing path so each retry gets a fresh
// reference.
func (s *PayoutProcessingService) RetryFailedPayouts(payoutIDs []int) (*models.ProcessingSummary, error) {
	if err := utils.ValidateNotEmpty(payoutIDs, "payoutIds"); err != nil {
		return nil, err
	}

	failed, err := s.payoutStore.GetFailedByIDs(payoutIDs)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve failed payouts")
	}
	if len(failed) == 0 {
		return nil, utils.NewNotFoundError("Failed payouts")
	}

	var resetIDs []int
	for _, payout := range failed {
		reset, err := s.payoutStore.ResetForRetry(payout.ID)
		if err != nil {
			log.Printf("RetryFailedPayouts: failed to reset payout %d: %v", payout.ID, err)
			continue
		}
		if reset {
			resetIDs = append(resetIDs, payout.ID)
		}
	}
	if len(resetIDs) == 0 {
		return nil, utils.NewInternalError("No payouts could be reset for retry")
	}

	log.Printf("RetryFailedPayouts: reset %d payouts, resubmitting", len(resetIDs))
	return s.ProcessPayouts(&models.ProcessPayoutsRequest{PayoutIDs: resetIDs})
}

// NotifyUpcomingPayouts sends upcoming-payout notices to every recipient
// whose calculated entry for the month meets the minimum threshold. The
// payout date in the message is the last day of the month; notices are
// only sent once that date is within the restaurant's configured lead
// window.
func (s *PayoutProcessingService) NotifyUpcomingPayouts(restaurantID, month string, minimumThreshold float64) (int, error) {
	restaurant, err := s.restaurantStore.GetRestaurantByID(restaurantID)
	if err != nil {
		return 0, err
	}

	payoutDate, err := utils.LastDayOfMonth(month)
	if err != nil {
		return 0, utils.NewValidationError(err.Error())
	}

	leadDays := restaurant.NotificationLeadDays
	if leadDays <= 0 {
		leadDays = utils.DefaultNotificationLeadDays
	}
	noticeFrom := payoutDate.AddDate(0, 0, -leadDays)
	if time.Now().UTC().Before(noticeFrom) {
		log.Printf("NotifyUpcomingPayouts: payout date %s for restaurant %s not within %d-day notice window yet",
			payoutDate.Format("2006-01-02"), restaurantID, leadDays)
		return 0, nil
	}

	calculation, err := s.calculationService.CalculateMonthlyPayouts(restaurantID, month, minimumThreshold)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, entry := range calculation.Entries {
		if !entry.MeetsMinimum || entry.WaiterID == "" {
			continue
		}
		waiter, err := s.waiterStore.GetWaiterByID(entry.WaiterID)
		if err != nil {
			log.Printf("NotifyUpcomingPayouts: skipping %s: %v", entry.RecipientName, err)
			continue
		}
		s.notifier.NotifyUpcoming(NotificationRecipient{
			Name:  waiter.Name,
			Phone: waiter.Phone,
			Email: waiter.Email,
		}, entry.NetAmount, payoutDate)
		notified++
	}

	log.Printf("NotifyUpcomingPayouts: notified %d recipients for restaurant %s month %s", notified, restaurantID, month)
	return notified, nil
}

// resolveDestination finds the disbursement destination for a payout:
// the waiter's current phone number for waiter payouts, the recipient
// account stamped at generation time for group payouts. An empty result
// means MissingDisbursementAccount.
func (s *PayoutProcessingService) resolveDestination(payout *models.Payout) string {
	if payout.WaiterID != "" {
		if waiter, err := s.waiterStore.GetWaiterByID(payout.WaiterID); err == nil {
			if msisdn := utils.NormalizePhoneNumber(waiter.Phone); msisdn != "" {
				return msisdn
			}
		}
	}
	if payout.RecipientAccount != "" {
		if msisdn := utils.NormalizePhoneNumber(payout.RecipientAccount); msisdn != "" {
			return msisdn
		}
		return payout.RecipientAccount
	}
	return ""
}

func (s *PayoutProcessingService) notifyProcessed(payout *models.Payout, transactionRef string) {
	s.notifier.NotifyProcessed(s.recipientFor(payout), payout.Amount, transactionRef)
}

func (s *PayoutProcessingService) notifyFailed(payout *models.Payout, reason string) {
	s.notifier.NotifyFailed(s.recipientFor(payout), payout.Amount, reason)
}

func (s *PayoutProcessingService) recipientFor(payout *models.Payout) NotificationRecipient {
	recipient := NotificationRecipient{
		Name:  payout.RecipientName,
		Phone: payout.RecipientAccount,
	}
	if payout.WaiterID != "" {
		if waiter, err := s.waiterStore.GetWaiterByID(payout.WaiterID); err == nil {
			recipient.Phone = waiter.Phone
			recipient.Email = waiter.Email
		}
	}
	return recipient
}
