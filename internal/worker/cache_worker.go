package worker

import (
	"github.com/spec-kit/admin-console/internal/service"
)

// StartCacheInvalidator subscribes the per-session caches to session
// lifecycle events: identity switches drop cached record sets and views,
// and ended sessions are evicted so the maps do not grow unbounded.
func StartCacheInvalidator(dashboard *service.DashboardService, reports *service.ReportService) {
	if dashboard != nil {
		dashboard.RegisterHandlers()
	}
	if reports != nil {
		reports.RegisterHandlers()
	}
}
