package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// In-memory store fakes shared by the service tests.

type fakeTipStore struct {
	tips             map[string]*models.Tip
	waiterSummaries  []models.WaiterTipSummary
	groupSummaries   []models.GroupDistributionSummary
	pooledCommission float64
	stored           []models.TipDistribution
	hasDistributions map[string]bool
}

func newFakeTipStore() *fakeTipStore {
	return &fakeTipStore{
		tips:             make(map[string]*models.Tip),
		hasDistributions: make(map[string]bool),
	}
}

func (s *fakeTipStore) GetTipByID(tipID string) (*models.Tip, error) {
	tip, ok := s.tips[tipID]
	if !ok {
		return nil, utils.NewNotFoundError("Tip")
	}
	return tip, nil
}

func (s *fakeTipStore) GetWaiterTipSummaries(restaurantID string, start, end time.Time) ([]models.WaiterTipSummary, error) {
	return s.waiterSummaries, nil
}

func (s *fakeTipStore) GetGroupDistributionSummaries(restaurantID string, start, end time.Time) ([]models.GroupDistributionSummary, error) {
	return s.groupSummaries, nil
}

func (s *fakeTipStore) GetPooledTipCommission(restaurantID string, start, end time.Time) (float64, error) {
	return s.pooledCommission, nil
}

func (s *fakeTipStore) StoreTipDistributions(distributions []models.TipDistribution) error {
	s.stored = append(s.stored, distributions...)
	for _, d := range distributions {
		s.hasDistributions[d.TipID] = true
	}
	return nil
}

func (s *fakeTipStore) HasTipDistributions(tipID string) (bool, error) {
	return s.hasDistributions[tipID], nil
}

type fakeWaiterStore struct {
	waiters map[string]*models.Waiter
}

func newFakeWaiterStore(waiters ...models.Waiter) *fakeWaiterStore {
	store := &fakeWaiterStore{waiters: make(map[string]*models.Waiter)}
	for i := range waiters {
		store.waiters[waiters[i].ID] = &waiters[i]
	}
	return store
}

func (s *fakeWaiterStore) GetWaiterByID(waiterID string) (*models.Waiter, error) {
	waiter, ok := s.waiters[waiterID]
	if !ok {
		return nil, utils.NewNotFoundError("Waiter")
	}
	return waiter, nil
}

func (s *fakeWaiterStore) GetActiveWaiters(restaurantID string) ([]models.Waiter, error) {
	var active []models.Waiter
	for _, w := range s.waiters {
		if w.RestaurantID == restaurantID && w.Active {
			active = append(active, *w)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (s *fakeWaiterStore) GetActiveWaitersByGroup(restaurantID string) (map[string][]models.Waiter, error) {
	byGroup := make(map[string][]models.Waiter)
	active, _ := s.GetActiveWaiters(restaurantID)
	for _, w := range active {
		if w.GroupName != "" {
			byGroup[w.GroupName] = append(byGroup[w.GroupName], w)
		}
	}
	return byGroup, nil
}

type fakeDistributionStore struct {
	groups map[string][]models.DistributionGroup
}

func newFakeDistributionStore() *fakeDistributionStore {
	return &fakeDistributionStore{groups: make(map[string][]models.DistributionGroup)}
}

func (s *fakeDistributionStore) GetGroups(restaurantID string) ([]models.DistributionGroup, error) {
	return s.groups[restaurantID], nil
}

func (s *fakeDistributionStore) ReplaceGroups(restaurantID string, groups []models.DistributionGroup) error {
	s.groups[restaurantID] = groups
	return nil
}

// fakePayoutStore keeps payout rows in memory and enforces the same status
// preconditions as the SQL implementation, so claim races and retry
// transitions behave like production.
type fakePayoutStore struct {
	payouts map[int]*models.Payout
	nextID  int

	// loseClaim simulates a concurrent run winning the row between
	// selection and claim.
	loseClaim map[int]bool
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{
		payouts:   make(map[int]*models.Payout),
		nextID:    1,
		loseClaim: make(map[int]bool),
	}
}

func (s *fakePayoutStore) add(payout models.Payout) *models.Payout {
	payout.ID = s.nextID
	s.nextID++
	if payout.Status == "" {
		payout.Status = utils.PayoutStatusPending
	}
	s.payouts[payout.ID] = &payout
	return s.payouts[payout.ID]
}

func (s *fakePayoutStore) CreatePayout(payout *models.Payout) error {
	payout.ID = s.nextID
	s.nextID++
	payout.Status = utils.PayoutStatusPending
	stored := *payout
	s.payouts[payout.ID] = &stored
	return nil
}

func (s *fakePayoutStore) HasPayoutsForMonth(restaurantID, month string) (bool, error) {
	for _, p := range s.payouts {
		if p.RestaurantID == restaurantID && p.PayoutMonth == month {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePayoutStore) GetPayoutByID(payoutID int) (*models.Payout, error) {
	p, ok := s.payouts[payoutID]
	if !ok {
		return nil, utils.NewNotFoundError("Payout")
	}
	return p, nil
}

func (s *fakePayoutStore) GetPendingByRestaurant(restaurantID string) ([]models.Payout, error) {
	var pending []models.Payout
	for _, p := range s.payouts {
		if p.RestaurantID == restaurantID && p.Status == utils.PayoutStatusPending {
			pending = append(pending, *p)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (s *fakePayoutStore) GetPendingByIDs(payoutIDs []int) ([]models.Payout, error) {
	var pending []models.Payout
	for _, id := range payoutIDs {
		if p, ok := s.payouts[id]; ok && p.Status == utils.PayoutStatusPending {
			pending = append(pending, *p)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (s *fakePayoutStore) GetPayoutsForMonth(restaurantID, month string) ([]models.Payout, error) {
	var result []models.Payout
	for _, p := range s.payouts {
		if p.RestaurantID == restaurantID && p.PayoutMonth == month {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakePayoutStore) GetFailedByIDs(payoutIDs []int) ([]models.Payout, error) {
	var failed []models.Payout
	for _, id := range payoutIDs {
		if p, ok := s.payouts[id]; ok && p.Status == utils.PayoutStatusFailed {
			failed = append(failed, *p)
		}
	}
	return failed, nil
}

func (s *fakePayoutStore) GetByReference(transactionRef string) (*models.Payout, error) {
	for _, p := range s.payouts {
		if p.TransactionRef == transactionRef {
			return p, nil
		}
	}
	return nil, utils.NewNotFoundError("Payout")
}

func (s *fakePayoutStore) ClaimPayout(payoutID int, transactionRef string) (bool, error) {
	p, ok := s.payouts[payoutID]
	if !ok || p.Status != utils.PayoutStatusPending || s.loseClaim[payoutID] {
		return false, nil
	}
	p.Status = utils.PayoutStatusProcessing
	p.TransactionRef = transactionRef
	return true, nil
}

func (s *fakePayoutStore) MarkCompleted(payoutID int, providerTxnID string, processedAt time.Time) error {
	p, ok := s.payouts[payoutID]
	if !ok {
		return fmt.Errorf("payout %d not found", payoutID)
	}
	p.Status = utils.PayoutStatusCompleted
	p.TransactionRef = providerTxnID
	p.ProcessedAt = &processedAt
	return nil
}

func (s *fakePayoutStore) MarkFailed(payoutID int, reason string, processedAt time.Time) error {
	p, ok := s.payouts[payoutID]
	if !ok {
		return fmt.Errorf("payout %d not found", payoutID)
	}
	p.Status = utils.PayoutStatusFailed
	p.FailureReason = reason
	p.ProcessedAt = &processedAt
	return nil
}

func (s *fakePayoutStore) ReleaseClaim(payoutID int) error {
	p, ok := s.payouts[payoutID]
	if !ok {
		return fmt.Errorf("payout %d not found", payoutID)
	}
	p.Status = utils.PayoutStatusPending
	p.TransactionRef = ""
	return nil
}

func (s *fakePayoutStore) ResetForRetry(payoutID int) (bool, error) {
	p, ok := s.payouts[payoutID]
	if !ok || p.Status != utils.PayoutStatusFailed {
		return false, nil
	}
	p.Status = utils.PayoutStatusPending
	p.TransactionRef = ""
	p.FailureReason = ""
	p.ProcessedAt = nil
	return true, nil
}

type fakeRestaurantStore struct {
	restaurants map[string]*models.Restaurant
}

func newFakeRestaurantStore(restaurants ...models.Restaurant) *fakeRestaurantStore {
	store := &fakeRestaurantStore{restaurants: make(map[string]*models.Restaurant)}
	for i := range restaurants {
		store.restaurants[restaurants[i].ID] = &restaurants[i]
	}
	return store
}

func (s *fakeRestaurantStore) GetRestaurantByID(restaurantID string) (*models.Restaurant, error) {
	r, ok := s.restaurants[restaurantID]
	if !ok {
		return nil, utils.NewNotFoundError("Restaurant")
	}
	return r, nil
}

// fakeProvider answers SendBulk from a script: either a whole-call error or
// a per-reference result map. References without a scripted result default
// to success.
type fakeProvider struct {
	name      string
	err       error
	results   map[string]models.DisbursementResult
	omit      map[string]bool
	lastItems []models.DisbursementItem
	calls     int
}

func (p *fakeProvider) Name() string {
	if p.name == "" {
		return "fake"
	}
	return p.name
}

func (p *fakeProvider) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	p.calls++
	p.lastItems = items
	if p.err != nil {
		return nil, p.err
	}
	var results []models.DisbursementResult
	for _, item := range items {
		if p.omit[item.Reference] {
			continue
		}
		if scripted, ok := p.results[item.Reference]; ok {
			results = append(results, scripted)
			continue
		}
		results = append(results, models.DisbursementResult{
			Reference:     item.Reference,
			Success:       true,
			ProviderTxnID: "TXN-" + item.Reference,
		})
	}
	return results, nil
}

// namedResultProvider scripts per-item outcomes keyed by recipient name,
// since references are generated at claim time and unknown to the test
// upfront.
type namedResultProvider struct {
	fakeProvider
	byName map[string]models.DisbursementResult
}

func (p *namedResultProvider) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	p.calls++
	p.lastItems = items
	if p.err != nil {
		return nil, p.err
	}
	var results []models.DisbursementResult
	for _, item := range items {
		if p.omit[item.Name] {
			continue
		}
		result := models.DisbursementResult{
			Reference:     item.Reference,
			Success:       true,
			ProviderTxnID: "TXN-" + item.Reference,
		}
		if scripted, ok := p.byName[item.Name]; ok {
			scripted.Reference = item.Reference
			if scripted.Success && scripted.ProviderTxnID == "" && !scripted.Pending {
				scripted.ProviderTxnID = "TXN-" + item.Reference
			}
			result = scripted
		}
		results = append(results, result)
	}
	return results, nil
}
