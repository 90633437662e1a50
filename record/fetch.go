package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/foomo/reportviewer/service/vo"
)

var (
	ErrFetch  = errors.New("record fetch failed")
	ErrStatus = errors.New("record request returned non-success status")
	ErrDecode = errors.New("record payload is malformed")
)

// Fetch downloads and decodes one record. It makes exactly one attempt.
func Fetch(ctx context.Context, client *http.Client, url string) (*vo.ContentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrFetch, err)
	}

	record := &vo.ContentRecord{}
	if err := json.Unmarshal(body, record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return record, nil
}

// Source resolves the records location given on the command line. URLs are used as
// is; anything else is treated as a local directory and served through a file
// transport so both go through Fetch.
func Source(location string, client *http.Client) (string, *http.Client) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		return location, client
	}
	if location == "" {
		location = "."
	}
	return "file:///", &http.Client{Transport: http.NewFileTransport(http.Dir(location))}
}

func recordURL(baseURL string, key vo.RecordKey) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key.Path()
}
