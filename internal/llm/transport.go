package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// call is one JSON round trip to a provider endpoint.
type call struct {
	provider string
	client   *http.Client
	endpoint string
	header   http.Header
}

// do posts in as JSON and decodes the reply into out. apiErr, when not nil,
// inspects the decoded reply for an error the provider embedded in its body;
// it runs before the status check so the provider's message wins over a
// bare status code.
func (c call) do(ctx context.Context, in, out any, apiErr func() error) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", c.provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: building request: %w", c.provider, err)
	}
	for k, vs := range c.header {
		req.Header[k] = vs
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", c.provider, err)
	}

	decodeErr := json.Unmarshal(raw, out)
	if decodeErr == nil && apiErr != nil {
		if err := apiErr(); err != nil {
			return fmt.Errorf("%s: %w", c.provider, err)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %s", c.provider, resp.StatusCode, truncate(raw, 512))
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: decoding response: %w", c.provider, decodeErr)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// pick returns override when set, otherwise fallback.
func pick[T comparable](override, fallback T) T {
	var zero T
	if override != zero {
		return override
	}
	return fallback
}
