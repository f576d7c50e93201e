package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"unifi-protect-cli/internal/auth"
	"unifi-protect-cli/pkg/models"
)

const (
	chunkSize = 32 * 1024

	// maxErrorBody caps how much of a failed streaming response is kept.
	maxErrorBody = 64 * 1024
)

// ChunkFunc receives each chunk of a streamed body in order, the running byte
// total, and the declared Content-Length (-1 when unknown).
type ChunkFunc func(chunk []byte, total int64, length int64) error

func (s *Session) newRequest(body any, query url.Values) (*resty.Request, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}

	req := s.HTTP.R().SetHeader("Authorization", auth.BearerHeader(token))
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return req, nil
}

// Request issues an authenticated request and returns the raw body.
func (s *Session) Request(method, path string, body any, query url.Values) ([]byte, error) {
	req, err := s.newRequest(body, query)
	if err != nil {
		return nil, err
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	s.log.Debug("request", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode()))

	if resp.StatusCode() != http.StatusOK {
		return nil, &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}

	return resp.Body(), nil
}

// RequestJSON issues an authenticated request and decodes the body as a JSON object.
func (s *Session) RequestJSON(method, path string, body any, query url.Values) (models.Record, error) {
	data, err := s.Request(method, path, body, query)
	if err != nil {
		return nil, err
	}
	return models.DecodeRecord(data)
}

// RequestChunked issues an authenticated request and streams the body to fn.
// It returns the number of bytes delivered. A body shorter than the declared
// Content-Length fails with ErrIncompleteDownload.
func (s *Session) RequestChunked(method, path string, body any, query url.Values, fn ChunkFunc) (int64, error) {
	if fn == nil {
		return 0, errors.New("no chunk callback provided")
	}

	req, err := s.newRequest(body, query)
	if err != nil {
		return 0, err
	}

	resp, err := req.SetDoNotParseResponse(true).Execute(method, path)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	s.log.Debug("stream", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode()))

	if resp.StatusCode() != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(raw, maxErrorBody))
		return 0, &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       string(errBody),
		}
	}

	length := int64(-1)
	if resp.RawResponse != nil {
		length = resp.RawResponse.ContentLength
	}

	var total int64
	buf := make([]byte, chunkSize)
	for {
		n, rerr := raw.Read(buf)
		if n > 0 {
			total += int64(n)
			if err := fn(buf[:n], total, length); err != nil {
				return total, err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return total, fmt.Errorf("%s %s: reading body: %w", method, path, rerr)
		}
	}

	if length >= 0 && total != length {
		return total, fmt.Errorf("%w: %s %s: got %d of %d bytes", ErrIncompleteDownload, method, path, total, length)
	}

	return total, nil
}
