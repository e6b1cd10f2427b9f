package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const crumbKey = "crumb"

// session holds the cookie-bound crumb the query API expects on most
// endpoints. Cookies live in the shared client jar; the crumb is cached
// with a TTL and dropped whenever the provider rejects it.
type session struct {
	http      *resty.Client
	cookieURL string
	crumbURL  string
	ttl       time.Duration
	cache     *cache.Cache
	mu        sync.Mutex
	log       zerolog.Logger
}

func newSession(h *resty.Client, cookieURL, crumbURL string, ttl time.Duration, log zerolog.Logger) *session {
	return &session{
		http:      h,
		cookieURL: cookieURL,
		crumbURL:  crumbURL,
		ttl:       ttl,
		cache:     cache.New(ttl, 2*ttl),
		log:       log,
	}
}

// crumb returns the cached crumb, fetching a new one when needed.
func (s *session) crumb(ctx context.Context) (string, error) {
	if v, ok := s.cache.Get(crumbKey); ok {
		return v.(string), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have refreshed it meanwhile
	if v, ok := s.cache.Get(crumbKey); ok {
		return v.(string), nil
	}

	// The cookie page usually answers 404; only the Set-Cookie matters.
	if _, err := s.http.R().SetContext(ctx).Get(s.cookieURL); err != nil {
		s.log.Warn().Err(err).Msg("cookie request failed")
	}

	resp, err := s.http.R().SetContext(ctx).SetHeader("Accept", "text/plain").Get(s.crumbURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch crumb: %w", err)
	}
	crumb := strings.TrimSpace(resp.String())
	if resp.StatusCode() != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", &APIError{StatusCode: resp.StatusCode(), Message: "crumb unavailable", Endpoint: "/v1/test/getcrumb"}
	}

	s.cache.Set(crumbKey, crumb, s.ttl)
	s.log.Debug().Msg("yahoo session initialized")
	return crumb, nil
}

func (s *session) invalidate() {
	s.cache.Delete(crumbKey)
}
