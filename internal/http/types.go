package http

import (
	"net/http"

	"github.com/kixfc/kix-server/internal/config"
	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/roster"
	"github.com/kixfc/kix-server/internal/updater"
)

type Server struct {
	Coordinator    *roster.Coordinator
	Updater        *updater.Updater
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Stats          metrics.MetricsStore
	Cfg            config.Config
	Events         events.Publisher
	Router         *http.ServeMux
}
