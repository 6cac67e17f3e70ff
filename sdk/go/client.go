package zrcsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Zaken HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Zaak represents the API zaak model (partial).
type Zaak struct {
	ID                string  `json:"id"`
	Identificatie     string  `json:"identificatie"`
	Bronorganisatie   string  `json:"bronorganisatie"`
	Zaaktype          string  `json:"zaaktype"`
	Startdatum        string  `json:"startdatum"`
	Einddatum         *string `json:"einddatum,omitempty"`
	Archiefnominatie  *string `json:"archiefnominatie,omitempty"`
	Archiefstatus     string  `json:"archiefstatus"`
	Archiefactiedatum *string `json:"archiefactiedatum,omitempty"`
}

type Status struct {
	ID               string `json:"id"`
	Zaak             string `json:"zaak"`
	Statustype       string `json:"statustype"`
	DatumStatusGezet string `json:"datum_status_gezet"`
}

type Resultaat struct {
	ID            string `json:"id"`
	Zaak          string `json:"zaak"`
	Resultaattype string `json:"resultaattype"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateZaak opens a new zaak.
func (c *Client) CreateZaak(ctx context.Context, bronorganisatie, zaaktype, startdatum string) (Zaak, error) {
	body := map[string]any{
		"bronorganisatie": bronorganisatie,
		"zaaktype":        zaaktype,
		"startdatum":      startdatum,
	}
	var resp Zaak
	err := c.do(ctx, http.MethodPost, "zaken", body, &resp)
	return resp, err
}

// GetZaak fetches a zaak by id.
func (c *Client) GetZaak(ctx context.Context, id string) (Zaak, error) {
	var resp Zaak
	err := c.do(ctx, http.MethodGet, "zaken/"+id, nil, &resp)
	return resp, err
}

// AddStatus registers a status; an eindstatus closes the zaak.
func (c *Client) AddStatus(ctx context.Context, zaakID, statustype, datumStatusGezet string) (Status, error) {
	body := map[string]any{
		"zaak":               zaakID,
		"statustype":         statustype,
		"datum_status_gezet": datumStatusGezet,
	}
	var resp Status
	err := c.do(ctx, http.MethodPost, "statussen", body, &resp)
	return resp, err
}

// SetResultaat records the resultaat for a zaak.
func (c *Client) SetResultaat(ctx context.Context, zaakID, resultaattype string) (Resultaat, error) {
	body := map[string]any{
		"zaak":          zaakID,
		"resultaattype": resultaattype,
	}
	var resp Resultaat
	err := c.do(ctx, http.MethodPost, "resultaten", body, &resp)
	return resp, err
}

// DeleteZaak removes a zaak with its dependent records.
func (c *Client) DeleteZaak(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "zaken/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, p string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	u := strings.TrimSuffix(c.BaseURL, "/") + "/" + p
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	} else if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	httpc := c.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: c.Timeout}
	}
	res, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
