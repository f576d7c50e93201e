package protect

import (
	"time"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/pkg/models"
)

// API is the part of *api.Session the client needs.
type API interface {
	Bootstrap() (*models.Bootstrap, error)
	CameraSnapshot(cameraID, localFile string, at time.Time) (*api.DownloadedFile, error)
	VideoExport(cameraID string, start, end time.Time, localFile string) (*api.DownloadedFile, error)
}

// Client exposes the NVR and its cameras from one bootstrap document. The
// document is fetched on first use and kept for the client's lifetime; build a
// new Client to see fresh state.
type Client struct {
	api API

	bootstrap *models.Bootstrap
	nvr       *NVR
	cameras   *CameraCollection
}

func NewClient(a API) *Client {
	return &Client{api: a}
}

func (c *Client) API() API {
	return c.api
}

func (c *Client) Bootstrap() (*models.Bootstrap, error) {
	if c.bootstrap != nil {
		return c.bootstrap, nil
	}

	b, err := c.api.Bootstrap()
	if err != nil {
		return nil, err
	}
	c.bootstrap = b
	return b, nil
}

func (c *Client) NVR() (*NVR, error) {
	if c.nvr != nil {
		return c.nvr, nil
	}

	b, err := c.Bootstrap()
	if err != nil {
		return nil, err
	}
	c.nvr = newNVR(b.NVR)
	return c.nvr, nil
}

func (c *Client) Cameras() (*CameraCollection, error) {
	if c.cameras != nil {
		return c.cameras, nil
	}

	b, err := c.Bootstrap()
	if err != nil {
		return nil, err
	}

	cameras := make([]*Camera, 0, len(b.Cameras))
	for _, rec := range b.Cameras {
		cameras = append(cameras, newCamera(c, rec))
	}
	c.cameras = &CameraCollection{cameras: cameras}
	return c.cameras, nil
}
