// Package settings is a plain key-value store for dashboard configuration
// blobs; values round-trip through JSON with no schema versioning.
package settings

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("setting not found")

type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"` // UTC
}

type (
	Repository interface {
		GetSetting(key string) (Setting, error)
		SetSetting(s Setting) (Setting, error)
		QueryAllSettings() ([]Setting, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get unmarshals the stored blob for key into dst.
func (svc *Service) Get(key string, dst interface{}) error {
	s, err := svc.repo.GetSetting(key)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(s.Value, dst), "unmarshaling setting %q", key)
}

// Set marshals v and stores it under key, replacing any previous value.
func (svc *Service) Set(key string, v interface{}) (Setting, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Setting{}, errors.Wrapf(err, "marshaling setting %q", key)
	}
	return svc.repo.SetSetting(Setting{
		Key:       key,
		Value:     raw,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) All() ([]Setting, error) {
	return svc.repo.QueryAllSettings()
}
