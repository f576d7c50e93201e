package api

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"unifi-protect-cli/internal/auth"
)

// DefaultPort is the HTTPS port of the UniFi Protect API.
const DefaultPort = 7443

// Credentials identify the NVR and the local user to log in as.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
}

type Config struct {
	Credentials

	// DownloadPath is joined with the file name of every download when set.
	DownloadPath string

	// InsecureSkipVerify disables TLS certificate validation. Protect
	// appliances ship with self-signed certificates, so the CLI enables this
	// unless the config says otherwise.
	InsecureSkipVerify bool
}

// Session owns the HTTP transport and the bearer token for one NVR.
//
// A Session is meant for one caller at a time: the token is fetched lazily
// with no locking, so concurrent first use races.
type Session struct {
	HTTP   *resty.Client
	Config Config

	token string
	log   *zap.Logger
}

// Option customises a Session built by New.
type Option func(*Session)

// WithLogger routes request and login logging to log. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithToken seeds the session with a token persisted by an earlier login.
func WithToken(token string) Option {
	return func(s *Session) {
		s.token = token
	}
}

// New builds a Session for cfg. A zero port falls back to DefaultPort; no
// request is made until the first call that needs a token.
func New(cfg Config, opts ...Option) *Session {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	s := &Session{
		Config: cfg,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := resty.New()
	r.SetBaseURL(s.BaseURL())
	r.SetHeader("Accept", "application/json")
	if cfg.InsecureSkipVerify {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	s.HTTP = r

	return s
}

// BaseURL is https://<host>:<port>/api/
func (s *Session) BaseURL() string {
	hostPort := net.JoinHostPort(s.Config.Host, strconv.Itoa(s.Config.Port))
	return "https://" + hostPort + "/api/"
}

func (s *Session) String() string {
	return fmt.Sprintf("api.Session{base=%q username=%q}", s.BaseURL(), s.Config.Username)
}

// Authenticate posts the credentials to /api/auth and stores the bearer token
// from the response's Authorization header, replacing any cached token.
func (s *Session) Authenticate() (string, error) {
	payload := auth.LoginPayload{
		Username: s.Config.Username,
		Password: s.Config.Password,
	}

	resp, err := s.HTTP.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("auth")
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		s.log.Warn("authentication rejected",
			zap.String("username", s.Config.Username),
			zap.Int("status", resp.StatusCode()))
		return "", &AuthenticationError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}

	token := auth.TokenFromHeader(resp.Header().Get("Authorization"))
	if token == "" {
		return "", ErrNoToken
	}

	s.token = token
	s.log.Info("authenticated", zap.String("username", s.Config.Username), zap.String("host", s.Config.Host))

	return token, nil
}

// Token returns the cached bearer token, authenticating first if there is none.
// An expired token is not refreshed here; call Authenticate explicitly.
func (s *Session) Token() (string, error) {
	if s.token != "" {
		return s.token, nil
	}
	return s.Authenticate()
}
