package platform

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestRealDetector_Detect(t *testing.T) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}
	if info.Platform != "" && info.Family == "" {
		t.Error("Family should be set when Platform is set")
	}
	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestDetect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := detect(ctx, "linux", "amd64")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("detect() error = %v, want context.Canceled", err)
	}
}

func TestDetect_NonLinuxSkipsDistro(t *testing.T) {
	info, err := detect(context.Background(), "darwin", "aarch64")
	if err != nil {
		t.Fatalf("detect() error = %v", err)
	}
	if info.Arch != "arm64" {
		t.Errorf("Arch = %q, want arm64", info.Arch)
	}
	if info.Platform != "" || info.Family != "" {
		t.Errorf("distro fields should be empty, got %+v", info)
	}
}

func TestOverride(t *testing.T) {
	tests := []struct {
		name   string
		os     string
		wantOS string
	}{
		{"linux", "linux", "linux"},
		{"macos alias", "macos", "darwin"},
		{"uppercase", "Darwin", "darwin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Override(tt.os).Detect(context.Background())
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if info.OS != tt.wantOS {
				t.Errorf("OS = %q, want %q", info.OS, tt.wantOS)
			}
		})
	}

	if _, ok := Override("").(*RealDetector); !ok {
		t.Error("Override(\"\") should return the real detector")
	}
}

func TestMapFamily(t *testing.T) {
	tests := map[string]string{
		"debian":  FamilyDebian,
		"Ubuntu":  FamilyDebian,
		" rhel ":  FamilyRHEL,
		"manjaro": FamilyArch,
		"":        FamilyUnknown,
		"haiku":   FamilyUnknown,
	}
	for in, want := range tests {
		if got := mapFamily(in); got != want {
			t.Errorf("mapFamily(%q) = %q, want %q", in, got, want)
		}
	}
}
