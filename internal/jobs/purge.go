package jobs

import (
	"time"

	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/services"
)

// PurgeTokensJob is the name of the link token garbage collector.
const PurgeTokensJob = "purge-link-tokens"

// PurgeTokens returns a task that hard-deletes link tokens that can no longer be redeemed.
func PurgeTokens(tokens services.TokenServicer, now func() time.Time) func() {
	if now == nil {
		now = time.Now
	}
	return func() {
		log := logger.Named("jobs").With("job", PurgeTokensJob)
		n, err := tokens.PurgeExpired(now())
		if err != nil {
			log.Errorw("failed to purge link tokens", "error", err)
			return
		}
		if n > 0 {
			log.Infow("purged link tokens", "count", n)
		}
	}
}

// SchedulePurge registers PurgeTokens to run every interval.
func (s *Scheduler) SchedulePurge(tokens services.TokenServicer, interval time.Duration) error {
	return s.Every(PurgeTokensJob, interval, PurgeTokens(tokens, nil))
}
