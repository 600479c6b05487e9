package atom

import "time"

// stepClock returns start, then advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	current := start.Add(-time.Second)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func validFeedInput() FeedInput {
	return FeedInput{
		ID:      "urn:feed:1",
		Title:   Text{Value: "My Feed"},
		Authors: []Person{{Name: "A"}},
	}
}

func validEntryInput(id string) EntryInput {
	return EntryInput{
		ID:      id,
		Title:   Text{Value: "Hello"},
		Content: &Content{Value: "Hi"},
		Authors: []Person{{Name: "A"}},
	}
}
