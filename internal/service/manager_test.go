package service

import (
	"strings"
	"testing"
)

var testUnit = Unit{
	BinaryPath: "/usr/local/bin/sift",
	ConfigPath: "/srv/sift/sift.yaml",
	WorkingDir: "/srv/sift",
	LogPath:    "/var/log/sift.log",
}

func TestRenderSystemdUnit(t *testing.T) {
	var sb strings.Builder
	if err := RenderSystemdUnit(&sb, testUnit); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"ExecStart=/usr/local/bin/sift serve --config /srv/sift/sift.yaml",
		"WorkingDirectory=/srv/sift",
		"StandardError=append:/var/log/sift.log",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("unit missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLaunchdPlist(t *testing.T) {
	var sb strings.Builder
	if err := RenderLaunchdPlist(&sb, testUnit); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"<string>com.kayz.sift</string>",
		"<string>serve</string>",
		"<string>/srv/sift/sift.yaml</string>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("plist missing %q:\n%s", want, out)
		}
	}
}
