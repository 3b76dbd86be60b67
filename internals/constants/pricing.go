package constants

import "time"

// Coin economy. All pricing policy lives here; components receive these as
// named constants instead of scattering literals.
const (
	// Every wallet starts with free coins.
	DefaultWalletBalance = 150

	// Flat price a student pays to unlock one tutor's contact details.
	ContactCost = 50

	// Application pricing: base + per-subject surcharge, counted subjects
	// capped, total capped. See applications/service.CalculateApplicationCost.
	ApplicationBaseCost           = 40
	ApplicationCostPerSubject     = 10
	ApplicationMaxSubjectsCounted = 3
	ApplicationCostCap            = 70

	// Top-up conversion: 100 coins = $0.1 USD.
	CoinsPerUSD   = 1000
	MinTopUpUSD   = 0.1
	MinTopUpCoins = 100
)

// Payment maintenance windows.
const (
	// A user can purge their own abandoned pending payments after this long.
	PendingPaymentDeleteAfter = time.Hour

	// The background sweep marks pending payments expired after this long.
	PendingPaymentExpireAfter = 24 * time.Hour
)

// SignedURLTTL bounds how long a generated blob-storage link stays valid.
const SignedURLTTL = time.Hour
