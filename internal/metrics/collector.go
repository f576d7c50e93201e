package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/internal/protect"
)

// Source is the NVR session a collector scrapes. *api.Session satisfies it.
type Source interface {
	protect.API
	Authenticate() (string, error)
}

var (
	upDesc = prometheus.NewDesc(
		"unifi_protect_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"unifi_protect_scrape_duration_seconds", "Time taken to scrape the bootstrap endpoint.", nil, nil,
	)
	nvrUptimeDesc = prometheus.NewDesc(
		"unifi_protect_nvr_uptime_seconds", "Seconds since the NVR came up.", []string{"id", "name"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"unifi_protect_cameras_total", "Number of cameras in the bootstrap.", nil, nil,
	)
	cameraConnectedDesc = prometheus.NewDesc(
		"unifi_protect_camera_connected", "Connection status.", []string{"id", "name", "type"}, nil,
	)
	cameraRecordingDesc = prometheus.NewDesc(
		"unifi_protect_camera_recording", "Recording status.", []string{"id", "name"}, nil,
	)
	cameraFilteredDesc = prometheus.NewDesc(
		"unifi_protect_cameras_filtered", "Cameras matching each named state filter.", []string{"filter"}, nil,
	)
)

// Collector exports camera and NVR state from a fresh bootstrap on every scrape.
type Collector struct {
	Source Source
	Log    *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewCollector(source Source, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{Source: source, Log: log, now: time.Now}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- nvrUptimeDesc
	ch <- cameraCountDesc
	ch <- cameraConnectedDesc
	ch <- cameraRecordingDesc
	ch <- cameraFilteredDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	// Scrapes share one session and its token.
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.now()
	success := 1.0

	client, err := c.fetchWithRetry()
	if err != nil {
		success = 0.0
		c.Log.Error("scrape failed", zap.Error(err))
	} else {
		c.collectNVR(ch, client)
		c.collectCameras(ch, client)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, c.now().Sub(start).Seconds())
}

// fetchWithRetry loads a fresh bootstrap. A rejected token triggers one
// explicit re-login.
func (c *Collector) fetchWithRetry() (*protect.Client, error) {
	client := protect.NewClient(c.Source)
	_, err := client.Bootstrap()
	if err == nil {
		return client, nil
	}
	if !api.IsUnauthorized(err) {
		return nil, err
	}

	c.Log.Info("token rejected, logging in again", zap.Error(err))
	if _, aerr := c.Source.Authenticate(); aerr != nil {
		return nil, aerr
	}

	client = protect.NewClient(c.Source)
	if _, err := client.Bootstrap(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Collector) collectNVR(ch chan<- prometheus.Metric, client *protect.Client) {
	nvr, err := client.NVR()
	if err != nil {
		return
	}
	up, ok, err := nvr.Time("upSince")
	if err != nil || !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(nvrUptimeDesc, prometheus.GaugeValue, c.now().Sub(up).Seconds(), nvr.ID(), nvr.Name())
}

func (c *Collector) collectCameras(ch chan<- prometheus.Metric, client *protect.Client) {
	cams, err := client.Cameras()
	if err != nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, float64(cams.Len()))

	for _, cam := range cams.All() {
		rec := cam.Record()
		camType, _ := rec.String("type")

		connected, _ := rec.Bool("isConnected")
		ch <- prometheus.MustNewConstMetric(cameraConnectedDesc, prometheus.GaugeValue, boolValue(connected), cam.ID(), cam.Name(), camType)

		recording, _ := rec.Bool("isRecording")
		ch <- prometheus.MustNewConstMetric(cameraRecordingDesc, prometheus.GaugeValue, boolValue(recording), cam.ID(), cam.Name())
	}

	for _, name := range protect.FilterNames() {
		filtered, err := cams.Filter(name, true)
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(cameraFilteredDesc, prometheus.GaugeValue, float64(filtered.Len()), name)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
