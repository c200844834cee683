//go:build !linux

package media

import (
	"context"
	"errors"
	"runtime"

	"github.com/dkeye/CounselCall/internal/core"
)

// Source has no capture backend outside Linux.
type Source struct{}

func NewSource() *Source { return &Source{} }

func (*Source) Capture(context.Context, core.MediaConstraints) ([]core.LocalTrack, error) {
	return nil, &core.DeviceError{
		Reason: core.DeviceNotFound,
		Err:    errors.New("no capture backend on " + runtime.GOOS),
	}
}
