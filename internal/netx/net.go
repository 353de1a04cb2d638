// Package netx transfers objects through presigned storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxObjectBytes caps downloads; order documents are small.
const maxObjectBytes = 8 << 20

// Download GETs a presigned URL and returns the object body.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(body))
	}
	return body, nil
}
