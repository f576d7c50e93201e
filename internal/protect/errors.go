package protect

import (
	"fmt"

	"unifi-protect-cli/pkg/models"
)

// FieldResolutionError is returned when a matcher names an attribute the
// camera record does not have.
type FieldResolutionError = models.FieldError

// UnknownFilterError is returned by Filter for a name outside the filter table.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Name)
}

// SnapshotError wraps a transport failure while taking a snapshot.
type SnapshotError struct {
	CameraID string
	Err      error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot of camera %s failed: %v", e.CameraID, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// VideoExportError wraps a transport failure while exporting video.
type VideoExportError struct {
	CameraID string
	Err      error
}

func (e *VideoExportError) Error() string {
	return fmt.Sprintf("video export of camera %s failed: %v", e.CameraID, e.Err)
}

func (e *VideoExportError) Unwrap() error { return e.Err }
