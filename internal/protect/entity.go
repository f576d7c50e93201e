package protect

import (
	"errors"
	"fmt"
	"time"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/pkg/models"
)

var (
	cameraTimeFields = fieldSet("upSince", "connectedSince", "lastSeen", "lastMotion", "lastRing")
	nvrTimeFields    = fieldSet("upSince")
)

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Resolver resolves an attribute by name, failing for unknown names.
type Resolver interface {
	Field(name string) (any, error)
}

// entity is the read-through view shared by Camera and NVR.
type entity struct {
	record     models.Record
	timeFields map[string]struct{}
}

// Field returns the named attribute. Time fields holding epoch milliseconds
// come back as time.Time; null stays nil.
func (e entity) Field(name string) (any, error) {
	v, err := e.record.Field(name)
	if err != nil || v == nil {
		return v, err
	}
	if _, ok := e.timeFields[name]; !ok {
		return v, nil
	}

	ms, err := models.ToInt64(v)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return api.FromMillis(ms), nil
}

// Time returns a time field. ok is false when the field is null.
func (e entity) Time(name string) (t time.Time, ok bool, err error) {
	v, err := e.Field(name)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	t, isTime := v.(time.Time)
	if !isTime {
		return time.Time{}, false, fmt.Errorf("field %q is not a time field", name)
	}
	return t, true, nil
}

func (e entity) ID() string {
	id, _ := e.record.String("id")
	return id
}

func (e entity) Name() string {
	name, _ := e.record.String("name")
	return name
}

// Record exposes the raw decoded record.
func (e entity) Record() models.Record {
	return e.record
}

// Camera is a read-through view over one bootstrap camera record.
type Camera struct {
	entity
	client *Client
}

func newCamera(client *Client, record models.Record) *Camera {
	return &Camera{
		entity: entity{record: record, timeFields: cameraTimeFields},
		client: client,
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf("Camera{id=%q name=%q}", c.ID(), c.Name())
}

// Match reports whether the named attribute satisfies m.
func (c *Camera) Match(field string, m Matcher) (bool, error) {
	return Match(c, field, m)
}

// Snapshot downloads a JPEG from this camera. An empty localFile uses the
// default <id>_<ms>.jpg name.
func (c *Camera) Snapshot(localFile string) (*api.DownloadedFile, error) {
	df, err := c.client.api.CameraSnapshot(c.ID(), localFile, time.Time{})
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			return nil, &SnapshotError{CameraID: c.ID(), Err: err}
		}
		return nil, err
	}
	return df, nil
}

// VideoExport downloads the recording between start and end as MP4.
func (c *Camera) VideoExport(start, end time.Time, localFile string) (*api.DownloadedFile, error) {
	df, err := c.client.api.VideoExport(c.ID(), start, end, localFile)
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			return nil, &VideoExportError{CameraID: c.ID(), Err: err}
		}
		return nil, err
	}
	return df, nil
}

// NVR is a read-through view over the bootstrap nvr record.
type NVR struct {
	entity
}

func newNVR(record models.Record) *NVR {
	return &NVR{entity: entity{record: record, timeFields: nvrTimeFields}}
}

func (n *NVR) String() string {
	return fmt.Sprintf("NVR{id=%q name=%q}", n.ID(), n.Name())
}
