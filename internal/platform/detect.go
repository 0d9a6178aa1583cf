package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect uses runtime.GOOS and runtime.GOARCH for OS and architecture and
// gopsutil for Linux distribution details. A distro lookup failure leaves the
// distro fields empty; only cancellation is reported as an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	return detect(ctx, runtime.GOOS, runtime.GOARCH)
}

func detect(ctx context.Context, goos, goarch string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}

	info := &Info{
		OS:      goos,
		Arch:    normalizeArch(goarch),
		ArchRaw: goarch,
	}

	if goos != "linux" {
		return info, nil
	}

	id, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	id = normalizePlatform(id)
	if id != "" {
		info.Platform = id
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}

// Override returns a detector that reports os instead of the detected OS.
// An empty os returns the real detector.
func Override(os string) Detector {
	os = normalizePlatform(os)
	if os == "" {
		return NewDetector()
	}
	if alias, ok := osAliases[os]; ok {
		os = alias
	}
	return StaticDetector{Info: Info{
		OS:      os,
		Arch:    normalizeArch(runtime.GOARCH),
		ArchRaw: runtime.GOARCH,
	}}
}
