package hwlog

import "time"

// Store is the columnar result of parsing one log: a shared timestamp
// sequence plus one value sequence per channel, all of equal length.
// A Store is immutable once the parser returns it.
type Store struct {
	// Times holds one parsed timestamp per data row, in file order.
	// Rows are never re-sorted, even when timestamps go backward.
	Times []time.Time

	// TimeLabels holds the raw timestamp cell text per row, for axis
	// labeling. Same length as Times.
	TimeLabels []string

	// Channels is the channel catalog in header order.
	Channels []Channel

	values [][]float64
}

// Rows returns the number of data rows.
func (s *Store) Rows() int {
	return len(s.Times)
}

// Values returns the value sequence for the channel at index i.
// The returned slice is shared; callers must not modify it.
func (s *Store) Values(i int) []float64 {
	return s.values[i]
}

// ValuesByName returns the value sequence for the named channel.
func (s *Store) ValuesByName(name string) ([]float64, bool) {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return s.values[i], true
		}
	}
	return nil, false
}

// Channel returns the catalog entry for the named channel.
func (s *Store) Channel(name string) (Channel, bool) {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return s.Channels[i], true
		}
	}
	return Channel{}, false
}

// Names returns all channel names in header order.
func (s *Store) Names() []string {
	names := make([]string, len(s.Channels))
	for i := range s.Channels {
		names[i] = s.Channels[i].Name
	}
	return names
}
