package atom

import "time"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t as a UTC instant with millisecond precision,
// e.g. 2024-03-01T09:30:00.000Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestamp formats t, or the normalizer clock's current instant if t is zero.
func (n *Normalizer) timestamp(t time.Time) string {
	if t.IsZero() {
		t = n.now()
	}
	return FormatTimestamp(t)
}
