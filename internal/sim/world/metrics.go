package world

// Metrics is a point-in-time view for the /metrics endpoint. Gauges are
// maintained by the loop goroutine and read via atomics, so scraping
// never contends with the simulation.
type Metrics struct {
	Bots       int
	Foods      int
	Observers  int
	Ticks      uint64
	QueueDepth int
}

func (w *World) Metrics() Metrics {
	return Metrics{
		Bots:       int(w.botsN.Load()),
		Foods:      int(w.foodsN.Load()),
		Observers:  int(w.observersN.Load()),
		Ticks:      w.ticksN.Load(),
		QueueDepth: len(w.updates),
	}
}
