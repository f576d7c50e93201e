package protect

import (
	"iter"
	"slices"
	"sort"
)

// filters maps named state filters to the boolean camera field they test.
var filters = map[string]string{
	"adopting":              "isAdopting",
	"adopted":               "isAdopted",
	"adopted_by_other":      "isAdoptedByOther",
	"provisioned":           "isProvisioned",
	"attempting_to_connect": "isAttemptingToConnect",
	"managed":               "isManaged",
	"updating":              "isUpdating",
	"connected":             "isConnected",
	"recording":             "isRecording",
	"rebooting":             "isRebooting",
	"deleting":              "isDeleting",
	"restoring":             "isRestoring",

	// Real-world status
	"dark":            "isDark",
	"motion_detected": "isMotionDetected",
	"smart_detected":  "isSmartDetected",
}

// FilterNames lists the names accepted by Filter, sorted.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterField returns the camera field behind a named filter.
func FilterField(name string) (string, bool) {
	field, ok := filters[name]
	return field, ok
}

// Attrs maps field names to matchers. A camera matches when any entry matches.
type Attrs map[string]Matcher

// CameraCollection is an ordered, read-only list of cameras. Every query
// returns a new collection and leaves the receiver untouched.
type CameraCollection struct {
	cameras []*Camera
}

// NewCameraCollection wraps a copy of cameras, keeping their order.
func NewCameraCollection(cameras []*Camera) *CameraCollection {
	return &CameraCollection{cameras: slices.Clone(cameras)}
}

// Match keeps the cameras for which any attribute in attrs matches. Keys are
// tried in sorted order. Empty attrs keeps every camera.
func (c *CameraCollection) Match(attrs Attrs) (*CameraCollection, error) {
	if len(attrs) == 0 {
		return NewCameraCollection(c.cameras), nil
	}

	fields := make([]string, 0, len(attrs))
	for field := range attrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []*Camera
	for _, cam := range c.cameras {
		for _, field := range fields {
			ok, err := cam.Match(field, attrs[field])
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, cam)
				break
			}
		}
	}

	return &CameraCollection{cameras: out}, nil
}

// Fetch returns the first camera Match would return. ok is false when
// nothing matches.
func (c *CameraCollection) Fetch(attrs Attrs) (cam *Camera, ok bool, err error) {
	m, err := c.Match(attrs)
	if err != nil {
		return nil, false, err
	}
	cam, ok = m.First()
	return cam, ok, nil
}

// Filter keeps the cameras whose filter field equals value. A camera without
// the field, or with a non-boolean value there, is left out.
func (c *CameraCollection) Filter(name string, value bool) (*CameraCollection, error) {
	if len(c.cameras) == 0 {
		return &CameraCollection{}, nil
	}

	field, ok := filters[name]
	if !ok {
		return nil, &UnknownFilterError{Name: name}
	}

	var out []*Camera
	for _, cam := range c.cameras {
		if b, err := cam.record.Bool(field); err == nil && b == value {
			out = append(out, cam)
		}
	}

	return &CameraCollection{cameras: out}, nil
}

func (c *CameraCollection) Len() int {
	return len(c.cameras)
}

// At returns the i'th camera; it panics when i is out of range, like a slice.
func (c *CameraCollection) At(i int) *Camera {
	return c.cameras[i]
}

func (c *CameraCollection) First() (*Camera, bool) {
	if len(c.cameras) == 0 {
		return nil, false
	}
	return c.cameras[0], true
}

func (c *CameraCollection) Last() (*Camera, bool) {
	if len(c.cameras) == 0 {
		return nil, false
	}
	return c.cameras[len(c.cameras)-1], true
}

// All iterates over index and camera in order.
func (c *CameraCollection) All() iter.Seq2[int, *Camera] {
	return slices.All(c.cameras)
}

// Cameras returns a copy of the underlying slice.
func (c *CameraCollection) Cameras() []*Camera {
	return slices.Clone(c.cameras)
}

// Chunks iterates over consecutive groups of up to n cameras. n must be
// positive.
func (c *CameraCollection) Chunks(n int) iter.Seq[[]*Camera] {
	return slices.Chunk(c.cameras, n)
}

// MapCameras applies fn to every camera in order.
func MapCameras[T any](c *CameraCollection, fn func(*Camera) T) []T {
	out := make([]T, 0, len(c.cameras))
	for _, cam := range c.cameras {
		out = append(out, fn(cam))
	}
	return out
}
