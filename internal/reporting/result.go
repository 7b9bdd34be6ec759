package reporting

import (
	"time"

	"github.com/merhi-odg/roi-monitor/internal/models"
	"github.com/merhi-odg/roi-monitor/internal/roi"
)

// BatchResult pairs a metrics report with the batch it was computed from.
type BatchResult struct {
	Name       string
	Timestamp  time.Time
	DurationMs int64
	Report     *models.MetricsReport
	Breakdown  *roi.Breakdown
}
