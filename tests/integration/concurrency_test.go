package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
)

// TestConcurrentReplay races the same signed request: exactly one copy may
// pass the nonce gate, the rest must be rejected as replays.
func TestConcurrentReplay(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	accessKey, secretKey := app.issueCredential(t, token, "race-client")

	payload := hmacauth.Payload{"event": "race"}
	headers := signedHeaders(t, payload, accessKey, secretKey, nil)

	const workers = 8
	results := make([]int, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, _ := app.postJSON(t, "/api/v1/ingest", payload, headers)
			results[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, code := range results {
		switch code {
		case http.StatusOK:
			accepted++
		case http.StatusForbidden:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, accepted, "exactly one request should win the nonce")
}

// TestConcurrentDistinctNonces verifies independently signed requests do not
// interfere with each other.
func TestConcurrentDistinctNonces(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)
	accessKey, secretKey := app.issueCredential(t, token, "parallel-client")

	const workers = 8
	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := hmacauth.Payload{"worker": i}
			headers := signedHeaders(t, payload, accessKey, secretKey, nil)
			resp, _ := app.postJSON(t, "/api/v1/ingest", payload, headers)
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		require.Equal(t, http.StatusOK, code, "worker %d", i)
	}
}
