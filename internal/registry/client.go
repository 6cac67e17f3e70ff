package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// BrondatumArchiefprocedure describes how the brondatum is derived for a
// resultaattype.
type BrondatumArchiefprocedure struct {
	Afleidingswijze string `json:"afleidingswijze"`
	Datumkenmerk    string `json:"datumkenmerk,omitempty"`
	Objecttype      string `json:"objecttype,omitempty"`
	Procestermijn   string `json:"procestermijn,omitempty"`
}

type StatusType struct {
	URL          string `json:"url"`
	Zaaktype     string `json:"zaaktype"`
	Volgnummer   int    `json:"volgnummer"`
	IsEindstatus bool   `json:"isEindstatus"`
}

type ResultaatType struct {
	URL                 string                    `json:"url"`
	Zaaktype            string                    `json:"zaaktype"`
	Archiefactietermijn string                    `json:"archiefactietermijn,omitempty"`
	Archiefnominatie    string                    `json:"archiefnominatie"`
	Brondatum           BrondatumArchiefprocedure `json:"brondatumArchiefprocedure"`
}

type Besluit struct {
	URL          string `json:"url"`
	Zaak         string `json:"zaak,omitempty"`
	Ingangsdatum string `json:"ingangsdatum,omitempty"`
	Vervaldatum  string `json:"vervaldatum,omitempty"`
}

// Document is the subset of an enkelvoudiginformatieobject the archiving
// rules look at.
type Document struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Locked bool   `json:"locked"`
}

// LookupError wraps a failed resource resolution. The engine maps it to a
// request-level validation failure; it never aborts the process.
type LookupError struct {
	URL string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("registry lookup %s: %v", e.URL, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Client resolves externally registered resources referenced by a zaak.
type Client interface {
	StatusType(ctx context.Context, url string) (StatusType, error)
	ResultaatType(ctx context.Context, url string) (ResultaatType, error)
	Besluit(ctx context.Context, url string) (Besluit, error)
	Document(ctx context.Context, url string) (Document, error)
	// Object fetches an arbitrary registered object; callers pick attributes
	// out of the raw document (zaakobject date derivation).
	Object(ctx context.Context, url string) (map[string]any, error)
}

const (
	defaultTimeout   = 10 * time.Second
	defaultCacheSize = 512
	defaultCacheTTL  = 15 * time.Minute
)

// HTTPClient is the production Client. Type definitions change rarely, so
// statustype and resultaattype lookups go through a bounded TTL cache.
type HTTPClient struct {
	HTTP      *http.Client
	AuthToken string

	statusTypes    *expirable.LRU[string, StatusType]
	resultaatTypes *expirable.LRU[string, ResultaatType]
}

// NewHTTPClient builds a client with the default cache bounds.
func NewHTTPClient(authToken string) *HTTPClient {
	return NewHTTPClientWithCache(authToken, defaultCacheSize, defaultCacheTTL)
}

// NewHTTPClientWithCache builds a client with explicit cache bounds.
func NewHTTPClientWithCache(authToken string, cacheSize int, cacheTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		HTTP:           &http.Client{Timeout: defaultTimeout},
		AuthToken:      authToken,
		statusTypes:    expirable.NewLRU[string, StatusType](cacheSize, nil, cacheTTL),
		resultaatTypes: expirable.NewLRU[string, ResultaatType](cacheSize, nil, cacheTTL),
	}
}

func (c *HTTPClient) StatusType(ctx context.Context, url string) (StatusType, error) {
	if c.statusTypes != nil {
		if st, ok := c.statusTypes.Get(url); ok {
			return st, nil
		}
	}
	var st StatusType
	if err := c.get(ctx, url, &st); err != nil {
		return StatusType{}, err
	}
	if c.statusTypes != nil {
		c.statusTypes.Add(url, st)
	}
	return st, nil
}

func (c *HTTPClient) ResultaatType(ctx context.Context, url string) (ResultaatType, error) {
	if c.resultaatTypes != nil {
		if rt, ok := c.resultaatTypes.Get(url); ok {
			return rt, nil
		}
	}
	var rt ResultaatType
	if err := c.get(ctx, url, &rt); err != nil {
		return ResultaatType{}, err
	}
	if c.resultaatTypes != nil {
		c.resultaatTypes.Add(url, rt)
	}
	return rt, nil
}

func (c *HTTPClient) Besluit(ctx context.Context, url string) (Besluit, error) {
	var b Besluit
	err := c.get(ctx, url, &b)
	return b, err
}

func (c *HTTPClient) Document(ctx context.Context, url string) (Document, error) {
	var d Document
	err := c.get(ctx, url, &d)
	if err == nil && d.URL == "" {
		d.URL = url
	}
	return d, err
}

func (c *HTTPClient) Object(ctx context.Context, url string) (map[string]any, error) {
	var raw map[string]any
	if err := c.get(ctx, url, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) get(ctx context.Context, url string, out any) error {
	httpc := c.HTTP
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &LookupError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return &LookupError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &LookupError{URL: url, Err: fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LookupError{URL: url, Err: err}
	}
	return nil
}
