package model

// ProjectStats is the aggregate consumed by the metrics collector.
type ProjectStats struct {
	TotalProjects int
	TotalUsers    int
	ByStatus      map[string]int
}

func NewProjectStats(projects []Project) ProjectStats {
	stats := ProjectStats{
		TotalProjects: len(projects),
		ByStatus:      map[string]int{},
	}
	users := map[string]struct{}{}
	for _, p := range projects {
		users[p.Username] = struct{}{}
		stats.ByStatus[string(p.Status)]++
	}
	stats.TotalUsers = len(users)
	return stats
}
