package cmd

import "testing"

func TestPreview(t *testing.T) {
	if got := preview("  short\n text ", 300); got != "short text" {
		t.Fatalf("preview = %q", got)
	}
	if got := preview("héllo world", 5); got != "héllo..." {
		t.Fatalf("preview = %q", got)
	}
}
