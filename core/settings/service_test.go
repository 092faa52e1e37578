package settings_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/settings"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
)

type sitePrefs struct {
	MaintenanceMode bool   `json:"maintenance_mode"`
	SupportEmail    string `json:"support_email"`
}

func newSvc(t *testing.T) *settings.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return settings.NewService(inmemdb.NewSettingsRepository(db))
}

func TestService_RoundTrip(t *testing.T) {
	svc := newSvc(t)

	var missing sitePrefs
	if err := svc.Get("site", &missing); errors.Cause(err) != settings.ErrNotFound {
		t.Errorf("Get(unknown) error = %v; want ErrNotFound", err)
	}

	want := sitePrefs{MaintenanceMode: true, SupportEmail: "help@test.cd"}
	if _, err := svc.Set("site", want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got sitePrefs
	if err := svc.Get("site", &got); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v; want %+v", got, want)
	}

	// overwrite replaces the previous value
	want.MaintenanceMode = false
	if _, err := svc.Set("site", want); err != nil {
		t.Fatalf("Set(overwrite) failed: %v", err)
	}
	if err := svc.Get("site", &got); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.MaintenanceMode {
		t.Error("Get() returned the stale value after overwrite")
	}

	all, err := svc.All()
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if len(all) != 1 || all[0].Key != "site" {
		t.Errorf("All() = %+v; want one setting under \"site\"", all)
	}
}
