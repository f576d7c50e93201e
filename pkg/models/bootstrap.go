package models

import (
	"errors"
	"fmt"
)

// Bootstrap is the NVR's full-state document returned by GET /api/bootstrap.
type Bootstrap struct {
	NVR     Record
	Cameras []Record
	Raw     Record // the whole document, for fields not modelled here
}

// DecodeBootstrap parses the bootstrap document. It requires an "nvr" object
// and a "cameras" array of objects; camera order is preserved.
func DecodeBootstrap(data []byte) (*Bootstrap, error) {
	raw, err := DecodeRecord(data)
	if err != nil {
		return nil, err
	}
	return BootstrapFromRecord(raw)
}

func BootstrapFromRecord(raw Record) (*Bootstrap, error) {
	nvr, err := raw.Sub("nvr")
	if err != nil {
		return nil, fmt.Errorf("invalid bootstrap: %w", err)
	}

	v, err := raw.Field("cameras")
	if err != nil {
		return nil, fmt.Errorf("invalid bootstrap: %w", err)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New("invalid bootstrap: cameras is not an array")
	}

	cameras := make([]Record, 0, len(list))
	for i, item := range list {
		cam, ok := AsRecord(item)
		if !ok {
			return nil, fmt.Errorf("invalid bootstrap: camera %d is not an object", i)
		}
		cameras = append(cameras, cam)
	}

	return &Bootstrap{NVR: nvr, Cameras: cameras, Raw: raw}, nil
}
