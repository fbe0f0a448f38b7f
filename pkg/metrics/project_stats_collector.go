package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
)

type projectStatsCollector struct {
	store            store.Store
	totalProjects    *prometheus.Desc
	totalUsers       *prometheus.Desc
	projectsByStatus *prometheus.Desc
}

// NewProjectStatsCollector reports project counts straight from the store
// on every scrape.
func NewProjectStatsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_%s", textbookLearner, name)
	}

	return &projectStatsCollector{
		store: s,
		totalProjects: prometheus.NewDesc(
			fqName("projects_total"),
			"Total number of uploaded projects.",
			nil,
			prometheus.Labels{},
		),
		totalUsers: prometheus.NewDesc(
			fqName("users_total"),
			"Total number of users with at least one project.",
			nil,
			prometheus.Labels{},
		),
		projectsByStatus: prometheus.NewDesc(
			fqName("projects_by_status_total"),
			"Projects by processing status.",
			[]string{"status"},
			prometheus.Labels{},
		),
	}
}

func (c *projectStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalProjects
	ch <- c.totalUsers
	ch <- c.projectsByStatus
}

// Collect implements Collector.
func (c *projectStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.store.Statistics(context.Background())
	if err != nil {
		zap.S().Named("project_stats_collector").Errorf("failed to collect project statistics: %s", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.totalProjects, prometheus.GaugeValue, float64(stats.TotalProjects))
	ch <- prometheus.MustNewConstMetric(c.totalUsers, prometheus.GaugeValue, float64(stats.TotalUsers))
	for status, total := range stats.ByStatus {
		ch <- prometheus.MustNewConstMetric(c.projectsByStatus, prometheus.GaugeValue, float64(total), status)
	}
}
