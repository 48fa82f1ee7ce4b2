// Package market fetches quotes and headlines from remote services and keeps
// the quote store fresh.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/etnz/fintrack"
)

// getJSON performs an HTTP GET request and unmarshals the JSON response into data.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", fintrack.ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", fintrack.ErrFetch, err)
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: cannot http GET %v%v: %v", fintrack.ErrFetch, req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("%w: %w", fintrack.ErrFetch, err)
	}
	if err := json.Unmarshal(buf.Bytes(), data); err != nil {
		return fmt.Errorf("%w: invalid response from %v: %w", fintrack.ErrFetch, req.URL.Host, err)
	}
	return nil
}
