package runner

import (
	"bytes"
	"fmt"
	"mox/config"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// fixture is one end-to-end case from testdata/*.yaml.
type fixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`
	Status string `yaml:"status"`
}

func loadFixtures(t *testing.T) map[string][]fixture {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}

	suites := make(map[string][]fixture, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}

		var cases []fixture
		if err := yaml.Unmarshal(data, &cases); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		suites[filepath.Base(path)] = cases
	}

	return suites
}

func TestFixtures(t *testing.T) {
	for file, cases := range loadFixtures(t) {
		for _, fx := range cases {
			fx := fx
			t.Run(fmt.Sprintf("%s/%s", file, fx.Name), func(t *testing.T) {
				var stdout, stderr bytes.Buffer
				session := NewSession(&stdout, &stderr, config.Default())

				status := session.Run(fx.Source)

				if status.String() != fx.Status {
					t.Errorf("status = %v, want %v", status, fx.Status)
				}
				if got := stdout.String(); got != fx.Stdout {
					t.Errorf("stdout = %q, want %q", got, fx.Stdout)
				}
				if got := stderr.String(); got != fx.Stderr {
					t.Errorf("stderr = %q, want %q", got, fx.Stderr)
				}
			})
		}
	}
}
