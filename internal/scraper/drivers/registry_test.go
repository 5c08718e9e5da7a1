package drivers

import (
	"context"
	"testing"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

type stubDriver struct{ name string }

func (d *stubDriver) Name() string                        { return d.name }
func (d *stubDriver) CheckLoggedIn(context.Context) bool  { return false }
func (d *stubDriver) Login(context.Context, string, string, string) error {
	return nil
}
func (d *stubDriver) SearchPlayer(context.Context, string, models.SearchWindow, Env) (*models.TurnoverResult, error) {
	return nil, nil
}

func TestRegisterAndByName(t *testing.T) {
	Register("testportal", func() Driver { return &stubDriver{name: "TESTPORTAL"} })

	// Lookup is case-insensitive.
	for _, name := range []string{"TESTPORTAL", "testportal", "  TestPortal "} {
		drv, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if drv.Name() != "TESTPORTAL" {
			t.Errorf("ByName(%q).Name() = %q", name, drv.Name())
		}
	}

	if _, err := ByName("nosuchportal"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	Register("dupportal", func() Driver { return &stubDriver{} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("DUPPORTAL", func() Driver { return &stubDriver{} })
}

func TestEnvProgressNilSafe(t *testing.T) {
	var env Env
	env.Progress(50) // must not panic

	var got int
	env.OnProgress = func(pct int) { got = pct }
	env.Progress(42)
	if got != 42 {
		t.Errorf("progress = %d, want 42", got)
	}
}
