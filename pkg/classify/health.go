package classify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// HealthStatus reports the reachability of each classification dependency.
type HealthStatus struct {
	Status    string                       `json:"status"`
	Providers map[models.ProviderID]string `json:"providers"`
	Cache     string                       `json:"cache"`
}

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// healthPingTimeout bounds each dependency ping so a hung endpoint cannot
// stall the health check.
const healthPingTimeout = 5 * time.Second

// Health pings every registered provider and the cache backend. Overall
// status is degraded when any dependency is unreachable; classification
// still works in that state through fallback and cache bypass.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    statusHealthy,
		Providers: make(map[models.ProviderID]string, len(s.registry)),
		Cache:     statusHealthy,
	}

	for id, p := range s.registry {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		err := p.Ping(pingCtx)
		cancel()

		if err != nil {
			status.Providers[id] = err.Error()
			status.Status = statusDegraded
			s.logger.Warn("provider health check failed",
				zap.String("provider", string(id)),
				zap.Error(err))
			continue
		}
		status.Providers[id] = statusHealthy
	}

	if err := s.cache.Health(ctx); err != nil {
		status.Cache = err.Error()
		status.Status = statusDegraded
	}

	return status
}

// AvailableModels lists the configured model names per registered remote
// provider; the first entry of each list is that provider's default.
func (s *Service) AvailableModels() map[models.ProviderID][]string {
	out := make(map[models.ProviderID][]string)
	for id := range s.registry {
		pc := providerConfig(s.cfg, id)
		if pc == nil {
			continue
		}
		out[id] = append([]string(nil), pc.Models...)
	}
	return out
}
