package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/metrics"
)

// getJSON issues a GET and decodes a 2xx body into dest. It returns the response
// status (0 when the request never completed) alongside any error.
func getJSON(ctx context.Context, client *http.Client, endpoint, rawURL string, dest interface{}) (int, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, "transport", time.Since(start))
		return 0, err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, metrics.StatusClass(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
