package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"recon-manager/feature/breaks"
	"recon-manager/feature/reconciliation/models"

	"gorm.io/gorm"
)

// ErrRunNotFound signals an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// RunAnalytics aggregates break counts for one run.
type RunAnalytics struct {
	Run             *models.Run      `json:"run"`
	BreaksByStatus  map[string]int64 `json:"breaksByStatus"`
	BreaksByType    map[string]int64 `json:"breaksByType"`
	BreaksByProduct map[string]int64 `json:"breaksByProduct"`
}

type bucketCount struct {
	Bucket string
	Count  int64
}

// Analytics computes per-run break counts grouped by status, type and
// product.
func (s *Service) Analytics(ctx context.Context, runID uint64) (*RunAnalytics, error) {
	var run models.Run
	if err := s.db.WithContext(ctx).First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	analytics := &RunAnalytics{Run: &run}
	var err error

	if analytics.BreaksByStatus, err = s.countBy(ctx, runID, "status"); err != nil {
		return nil, err
	}
	if analytics.BreaksByType, err = s.countBy(ctx, runID, "break_type"); err != nil {
		return nil, err
	}
	if analytics.BreaksByProduct, err = s.countBy(ctx, runID, "product"); err != nil {
		return nil, err
	}

	return analytics, nil
}

func (s *Service) countBy(ctx context.Context, runID uint64, column string) (map[string]int64, error) {
	var rows []bucketCount
	err := s.db.WithContext(ctx).
		Model(&breaks.BreakItem{}).
		Select(column+" AS bucket, COUNT(*) AS count").
		Where("run_id = ?", runID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting breaks by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Bucket] = row.Count
	}
	return counts, nil
}
