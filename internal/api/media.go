package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"unifi-protect-cli/pkg/models"
)

// DownloadedFile describes a file written by DownloadFile.
type DownloadedFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Millis converts t to the epoch milliseconds the API expects: whole seconds
// times 1000.
func Millis(t time.Time) int64 {
	return t.Unix() * 1000
}

// FromMillis converts epoch milliseconds read from a record, dropping the
// sub-second part.
func FromMillis(ms int64) time.Time {
	sec := ms / 1000
	if ms%1000 < 0 {
		sec--
	}
	return time.Unix(sec, 0)
}

// DownloadFile streams a GET response into localFile, joined with the
// configured download path. On any failure the partial file is removed.
func (s *Session) DownloadFile(path string, query url.Values, localFile string) (df *DownloadedFile, err error) {
	file := localFile
	if s.Config.DownloadPath != "" {
		file = filepath.Join(s.Config.DownloadPath, localFile)
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", file, cerr)
		}
		if err != nil {
			df = nil
			_ = os.Remove(file)
		}
	}()

	size, err := s.RequestChunked(http.MethodGet, path, nil, query, func(chunk []byte, _, _ int64) error {
		_, werr := f.Write(chunk)
		return werr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("downloaded", zap.String("file", file), zap.Int64("bytes", size))

	return &DownloadedFile{Path: file, Size: size}, nil
}

// BootstrapJSON returns the bootstrap document as received.
func (s *Session) BootstrapJSON() ([]byte, error) {
	return s.Request(http.MethodGet, "bootstrap", nil, nil)
}

func (s *Session) Bootstrap() (*models.Bootstrap, error) {
	raw, err := s.RequestJSON(http.MethodGet, "bootstrap", nil, nil)
	if err != nil {
		return nil, err
	}
	return models.BootstrapFromRecord(raw)
}

// CameraSnapshot downloads a JPEG from the camera. A zero at means now; an
// empty localFile defaults to <camera>_<ms>.jpg.
func (s *Session) CameraSnapshot(cameraID, localFile string, at time.Time) (*DownloadedFile, error) {
	if at.IsZero() {
		at = time.Now()
	}
	ts := strconv.FormatInt(Millis(at), 10)
	if localFile == "" {
		localFile = cameraID + "_" + ts + ".jpg"
	}

	query := url.Values{}
	query.Set("force", "true")
	query.Set("ts", ts)

	return s.DownloadFile("cameras/"+url.PathEscape(cameraID)+"/snapshot", query, localFile)
}

// VideoExport downloads an MP4 of the camera's recording between start and
// end. An empty localFile defaults to <camera>_<start>_<end>.mp4.
func (s *Session) VideoExport(cameraID string, start, end time.Time, localFile string) (*DownloadedFile, error) {
	startTS := strconv.FormatInt(Millis(start), 10)
	endTS := strconv.FormatInt(Millis(end), 10)
	if localFile == "" {
		localFile = cameraID + "_" + startTS + "_" + endTS + ".mp4"
	}

	query := url.Values{}
	query.Set("camera", cameraID)
	query.Set("start", startTS)
	query.Set("end", endTS)

	return s.DownloadFile("video/export", query, localFile)
}
