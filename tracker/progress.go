package tracker

import (
	"math"

	"github.com/argus-network/argus/config"
)

// Progress converts a confirmation count into display progress and a rough
// ETA for the given chain. Pure function; safe to call repeatedly with a
// non-decreasing confirmation count.
func Progress(profile config.ChainProfile, confirmations int) (percent int, etaMs int64) {
	required := profile.ConfirmationsRequired
	if required <= 0 {
		return 100, 0
	}

	if confirmations < 0 {
		confirmations = 0
	}

	percent = int(math.Round(float64(confirmations) / float64(required) * 100))
	if percent > 100 {
		percent = 100
	}

	remaining := required - confirmations
	if remaining < 0 {
		remaining = 0
	}
	etaMs = int64(remaining) * int64(profile.BlockTimeSeconds) * 1000

	return percent, etaMs
}

// EstimateConfirmations guesses how many blocks have passed since the
// transfer started. Display only; on push-model chains the receipt is
// authoritative.
func EstimateConfirmations(profile config.ChainProfile, elapsedMs int64) int {
	blockMs := int64(profile.BlockTimeSeconds) * 1000
	if blockMs <= 0 || elapsedMs <= 0 {
		return 0
	}

	estimated := int(elapsedMs / blockMs)
	if estimated > profile.ConfirmationsRequired {
		estimated = profile.ConfirmationsRequired
	}

	return estimated
}
