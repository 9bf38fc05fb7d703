package cmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kayz/sift/internal/search"
)

func TestExtractURLs(t *testing.T) {
	got, err := extractURLs([]string{"https://a.test, https://b.test", " https://c.test "})
	if err != nil {
		t.Fatalf("extractURLs: %v", err)
	}
	want := []string{"https://a.test", "https://b.test", "https://c.test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extractURLs = %v, want %v", got, want)
	}

	if _, err := extractURLs([]string{" , "}); !errors.Is(err, search.ErrNoURLs) {
		t.Fatalf("expected ErrNoURLs, got %v", err)
	}
	if _, err := extractURLs([]string{"https://a.test", "javascript:alert(1)"}); err == nil {
		t.Fatal("expected non-http url to be rejected")
	}
}
