package reporter

import "github.com/amosWeiskopf/linksmith/internal/models"

// Assemble partitions statuses into broken and working links and tallies them.
// It does not modify statuses and always returns non-nil partitions.
func Assemble(statuses []models.LinkStatus) *models.CrawlReport {
	report := &models.CrawlReport{
		Links:        make([]models.LinkStatus, len(statuses)),
		BrokenLinks:  []models.LinkStatus{},
		WorkingLinks: []models.LinkStatus{},
	}
	copy(report.Links, statuses)

	for _, s := range statuses {
		if s.Broken {
			report.BrokenLinks = append(report.BrokenLinks, s)
		} else {
			report.WorkingLinks = append(report.WorkingLinks, s)
		}
	}

	report.Total = len(statuses)
	report.Broken = len(report.BrokenLinks)
	report.Working = len(report.WorkingLinks)
	return report
}
