package services

import (
	"fmt"
	"log"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// DisbursementProvider moves money to many recipients in one call and
// reports per-recipient outcomes. Implementations must return a result
// for every submitted item, or a provider-level error for the whole call.
type DisbursementProvider interface {
	Name() string
	SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error)
}

// AuditedDisbursementProvider additionally reports which providers were
// tried for one call, so fallback chains stay auditable per provider.
type AuditedDisbursementProvider interface {
	DisbursementProvider
	SendBulkAudited(items []models.DisbursementItem) ([]models.DisbursementResult, []models.ProviderAttempt, error)
}

// FallbackProvider tries a primary provider and, only on a provider-level
// failure of the whole call, attempts the fallback. Per-item failures do
// not trigger the fallback: those recipients are handled by retry. The
// provider holds no per-call state, so one instance is safe to share
// across concurrent processing runs; each call returns its own attempt
// trail.
type FallbackProvider struct {
	primary  DisbursementProvider
	fallback DisbursementProvider
}

// NewFallbackProvider creates a provider chain. fallback may be nil.
func NewFallbackProvider(primary, fallback DisbursementProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback}
}

// Name identifies the chain for logs and summaries.
func (p *FallbackProvider) Name() string {
	if p.fallback == nil {
		return p.primary.Name()
	}
	return fmt.Sprintf("%s->%s", p.primary.Name(), p.fallback.Name())
}

// SendBulk satisfies DisbursementProvider, discarding the attempt trail.
func (p *FallbackProvider) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	results, _, err := p.SendBulkAudited(items)
	return results, err
}

// SendBulkAudited submits the batch to the primary provider, falling back
// once on a whole-call failure, and returns every provider attempt made
// for this call. An ambiguous primary failure (money may have moved) is
// returned as-is rather than retried on the fallback, since a second
// submission could double-pay.
func (p *FallbackProvider) SendBulkAudited(items []models.DisbursementItem) ([]models.DisbursementResult, []models.ProviderAttempt, error) {
	var attempts []models.ProviderAttempt

	results, err := p.primary.SendBulk(items)
	if err == nil {
		attempts = append(attempts, models.ProviderAttempt{Provider: p.primary.Name(), Success: true})
		return results, attempts, nil
	}
	attempts = append(attempts, models.ProviderAttempt{Provider: p.primary.Name(), Success: false, Error: err.Error()})

	provErr, ok := err.(*utils.ProviderError)
	if !ok || !provErr.Definite || p.fallback == nil {
		return nil, attempts, err
	}

	log.Printf("FallbackProvider: %s rejected batch (%v), attempting %s", p.primary.Name(), err, p.fallback.Name())
	results, err = p.fallback.SendBulk(items)
	if err != nil {
		attempts = append(attempts, models.ProviderAttempt{Provider: p.fallback.Name(), Success: false, Error: err.Error()})
		return nil, attempts, err
	}
	attempts = append(attempts, models.ProviderAttempt{Provider: p.fallback.Name(), Success: true})
	return results, attempts, nil
}

// sendBulkAudited dispatches through SendBulkAudited when the provider
// supports it, otherwise wraps the plain call as a single attempt.
func sendBulkAudited(provider DisbursementProvider, items []models.DisbursementItem) ([]models.DisbursementResult, []models.ProviderAttempt, error) {
	if audited, ok := provider.(AuditedDisbursementProvider); ok {
		return audited.SendBulkAudited(items)
	}
	results, err := provider.SendBulk(items)
	attempt := models.ProviderAttempt{Provider: provider.Name(), Success: err == nil}
	if err != nil {
		attempt.Error = err.Error()
	}
	return results, []models.ProviderAttempt{attempt}, err
}

// simulatedProvider answers every item with success without contacting any
// external system. Used for dry runs.
type simulatedProvider struct{}

func (simulatedProvider) Name() string { return "simulated" }

func (simulatedProvider) SendBulk(items []models.DisbursementItem) ([]models.DisbursementResult, error) {
	results := make([]models.DisbursementResult, len(items))
	for i, item := range items {
		results[i] = models.DisbursementResult{
			Reference:     item.Reference,
			Success:       true,
			ProviderTxnID: "DRYRUN-" + item.Reference,
		}
	}
	return results, nil
}
