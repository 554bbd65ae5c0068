//go:build !linux

package wifi

import (
	"context"

	"go.uber.org/zap"
)

type stubNameSource struct{}

// NewNameSource returns a no-op source on platforms without nl80211 support;
// every sweep reconciles under the Unknown sentinel there.
func NewNameSource(_ *zap.Logger) NameSource { return &stubNameSource{} }

func (s *stubNameSource) CurrentSSID(_ context.Context) (string, error) { return "", nil }
