package touch

import (
	"sync"

	"github.com/gammazero/deque"
	"github.com/montanaflynn/stats"
)

// History keeps the most recent smoothed readings of the touch sensor.
// It is written by the poll loop and read by viewers, so access is
// guarded by a mutex.
type History struct {
	mu       sync.Mutex
	values   deque.Deque[int]
	capacity int
}

// Stats summarises the readings currently held in a History.
type Stats struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	Median float64
	StdDev float64
}

func NewHistory(capacity int) *History {
	h := &History{capacity: max(capacity, 1)}
	h.values.Grow(h.capacity)
	return h
}

// Add appends a reading, dropping the oldest one when the history is full.
func (h *History) Add(value int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.values.Len() == h.capacity {
		h.values.PopFront()
	}
	h.values.PushBack(value)
}

// Values returns a copy of the readings, oldest first.
func (h *History) Values() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ret := make([]int, h.values.Len())
	for i := range ret {
		ret[i] = h.values.At(i)
	}
	return ret
}

// Stats calculates the statistics over the current readings. An empty
// history yields the zero Stats.
func (h *History) Stats() Stats {
	values := h.Values()
	if len(values) == 0 {
		return Stats{}
	}
	data := stats.LoadRawData(values)

	// errors only occur for empty input, which is handled above
	minimum, _ := stats.Min(data)
	maximum, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviationPopulation(data)

	return Stats{
		Count:  len(values),
		Min:    int(minimum),
		Max:    int(maximum),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}
}
