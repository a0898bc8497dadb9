package poller

type cycleMetrics struct {
	total   int
	alerted int
	noData  int
	errored int
}

func (m *cycleMetrics) Add(other *cycleMetrics) {
	m.alerted += other.alerted
	m.noData += other.noData
	m.errored += other.errored
}
