package feed

import (
	"strings"
	"testing"

	"github.com/lysyi3m/atom-comb/app/atom"
)

func testItem(title, summary, content string) Item {
	return Item{
		Entry: atom.EntryInput{
			Title:   atom.Text{Value: title},
			Summary: atom.Text{Value: summary},
			Content: &atom.Content{Value: content},
		},
	}
}

func TestFilterer_ApplyFilters_NoFilters(t *testing.T) {
	filterer := NewFilterer()

	items := []Item{
		testItem("Test Item 1", "Test description", ""),
		testItem("Test Item 2", "Another description", ""),
	}

	result := filterer.Run(items, &Config{Filters: []ConfigFilter{}})

	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}

	for i, item := range result {
		if item.IsFiltered {
			t.Errorf("Item %d should not be filtered when no filters are configured", i)
		}
		if item.FilterReason != "" {
			t.Errorf("Item %d should have empty filter reason, got: %s", i, item.FilterReason)
		}
	}
}

func TestFilterer_ApplyFilters_TitleIncludeFilter(t *testing.T) {
	filterer := NewFilterer()

	items := []Item{
		testItem("Breaking News: Important Update", "News description", ""),
		testItem("Sports Update", "Sports description", ""),
		testItem("Weather Report", "Weather description", ""),
	}

	feedConfig := &Config{
		Filters: []ConfigFilter{
			{
				Field:    "title",
				Includes: []string{"news", "update"},
			},
		},
	}

	result := filterer.Run(items, feedConfig)

	if len(result) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(result))
	}

	if result[0].IsFiltered || result[1].IsFiltered {
		t.Error("Items matching an include rule should not be filtered")
	}

	if !result[2].IsFiltered {
		t.Error("Weather Report should be filtered")
	}
	if !strings.Contains(result[2].FilterReason, "does not contain any of") {
		t.Errorf("Unexpected filter reason: %s", result[2].FilterReason)
	}
}

func TestFilterer_ApplyFilters_ExcludeWinsOverInclude(t *testing.T) {
	filterer := NewFilterer()

	items := []Item{testItem("Tech news", "sponsored post", "")}

	feedConfig := &Config{
		Filters: []ConfigFilter{
			{Field: "title", Includes: []string{"tech"}},
			{Field: "summary", Excludes: []string{"SPONSORED"}},
		},
	}

	result := filterer.Run(items, feedConfig)

	if !result[0].IsFiltered {
		t.Fatal("Item should be filtered by the summary exclude rule")
	}
	if result[0].FilterReason != "Excluded by summary filter: contains 'SPONSORED'" {
		t.Errorf("Unexpected filter reason: %s", result[0].FilterReason)
	}
}

func TestFilterer_FieldValues(t *testing.T) {
	filterer := NewFilterer()

	item := Item{
		Link: "https://example.com/go",
		Entry: atom.EntryInput{
			Authors:    []atom.Person{{Name: "Alice"}, {Name: "Bob"}},
			Categories: []atom.Category{{Term: "go"}, {Term: "rust"}},
			Content:    &atom.Content{Value: "body"},
		},
	}

	tests := map[string]string{
		"authors":    "Alice Bob",
		"categories": "go rust",
		"content":    "body",
		"link":       "https://example.com/go",
		"unknown":    "",
	}

	for field, expected := range tests {
		if got := filterer.getFieldValue(item, field); got != expected {
			t.Errorf("Field %s: expected %q, got %q", field, expected, got)
		}
	}

	if got := filterer.getFieldValue(Item{}, "content"); got != "" {
		t.Errorf("Expected empty content for item without content, got %q", got)
	}
}
