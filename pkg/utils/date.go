package utils

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string. Empty input yields the zero time.
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// Truncate normalizes a timestamp to a pure calendar date in UTC, regardless
// of whether it arrived with a time component.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is a contiguous inclusive [From, To] span of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(Truncate(r.To).Sub(Truncate(r.From)).Hours()/24) + 1
}

// ChunkRange splits [from, to] into contiguous sub-ranges of at most maxDays
// days each. The union of the chunks covers the input exactly, with no gap and
// no overlap. An inverted range yields no chunks.
func ChunkRange(from, to time.Time, maxDays int) []DateRange {
	if maxDays < 1 {
		maxDays = 1
	}

	from = Truncate(from)
	to = Truncate(to)

	chunks := make([]DateRange, 0)
	for start := from; !start.After(to); {
		end := start.AddDate(0, 0, maxDays-1)
		if end.After(to) {
			end = to
		}
		chunks = append(chunks, DateRange{From: start, To: end})
		start = end.AddDate(0, 0, 1)
	}

	return chunks
}
