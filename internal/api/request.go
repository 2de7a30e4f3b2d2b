package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// doRequest performs a GET against path and returns the raw body and the
// Content-Type header. All failures come back classified.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, "", &NetworkError{URL: fullURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{
			StatusCode:  resp.StatusCode,
			URL:         fullURL,
			BodyPreview: preview(body),
		}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// getJSON performs a GET request and decodes the JSON body into result.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, result any) error {
	body, _, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ParseError{URL: c.baseURL + path, Err: err}
	}

	return nil
}
