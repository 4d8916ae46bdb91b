package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GeneratePayoutReference builds the idempotent per-payout reference sent
// to the disbursement provider. The payout id keeps it stable per payout,
// the uuid fragment distinguishes retry attempts.
func GeneratePayoutReference(payoutID int) string {
	fragment := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("PAYOUT-%d-%s", payoutID, strings.ToUpper(fragment))
}
