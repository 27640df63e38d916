package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Application", Application},
		{"Language", Language},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.version == "" {
				t.Errorf("%s version is empty", tt.name)
			}
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}

	if HistorySchema < 1 {
		t.Errorf("HistorySchema = %d, want >= 1", HistorySchema)
	}
}

func TestGet(t *testing.T) {
	info := Get()

	if info.Application != Application || info.Protocol != Protocol || info.Schema != HistorySchema {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && info.GoVersion != "" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}

	s := info.String()
	if !strings.HasPrefix(s, "minipas "+Application) || !strings.Contains(s, "commit "+Commit) {
		t.Errorf("String() = %q", s)
	}
}
