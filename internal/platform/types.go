// Package platform detects the host operating system, architecture and Linux
// distribution, and answers the platform questions component specs ask:
// path conditions, config file platform filters and the read-only platform
// table exposed to Lua overrides.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64" or the raw GOARCH when not normalized
	ArchRaw  string // original GOARCH
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// String returns the OS name, which is the value path conditions compare against.
func (i *Info) String() string {
	return i.OS
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used when the platform is pinned
// through configuration and in tests.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the configured Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := d.Info
	return &info, nil
}
