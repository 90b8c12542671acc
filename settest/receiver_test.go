package settest_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setpush/setpush/settest"
)

func post(t *testing.T, url, token string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(token))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/secevent+jwt")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestReceiverRecordsDeliveries(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver(settest.WithLogger(settest.NewTestLogger(t)))
	defer receiver.Close()

	token := settest.Token()
	res := post(t, receiver.URL(), token, nil)
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	deliveries := receiver.Deliveries()
	require.Len(t, deliveries, 1)
	assert.Equal(t, token, deliveries[0].Token)
	assert.Equal(t, "application/secevent+jwt", deliveries[0].Headers.Get("Content-Type"))
	assert.False(t, deliveries[0].Compressed)
	assert.False(t, deliveries[0].ReceivedAt.IsZero())

	_, err := uuid.Parse(deliveries[0].ID)
	require.NoError(t, err, "delivery ID should be a UUID")

	assert.Equal(t, deliveries[0].ID, res.Header.Get("X-Delivery-Id"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), deliveries[0].ID)
}

func TestReceiverScriptedResponses(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver(settest.WithResponses(
		settest.Unavailable(),
		settest.Throttled("2"),
		settest.Rejected(http.StatusBadRequest, "unparsable token"),
	))
	defer receiver.Close()

	res := post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res = post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, "2", res.Header.Get("Retry-After"))

	res = post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "unparsable token")

	// Script exhausted: back to the default acknowledgement.
	res = post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)

	require.Equal(t, 4, receiver.DeliveryCount())
}

func TestReceiverEnqueue(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver()
	defer receiver.Close()

	receiver.Enqueue(settest.Unavailable())

	res := post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res = post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
}

func TestReceiverAuthorization(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver(settest.WithAuthorization("secret-credential"))
	defer receiver.Close()

	res := post(t, receiver.URL(), settest.Token(), nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = post(t, receiver.URL(), settest.Token(), map[string]string{
		"Authorization": "Bearer wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Zero(t, receiver.DeliveryCount(), "unauthorized deliveries must not be recorded")

	res = post(t, receiver.URL(), settest.Token(), map[string]string{
		"Authorization": "Bearer secret-credential",
	})
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	require.Equal(t, 1, receiver.DeliveryCount())
}

func TestReceiverDecodesGzip(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver()
	defer receiver.Close()

	token := settest.Token()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(token))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res := post(t, receiver.URL(), buf.String(), map[string]string{
		"Content-Encoding": "gzip",
	})
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	deliveries := receiver.Deliveries()
	require.Len(t, deliveries, 1)
	assert.Equal(t, token, deliveries[0].Token)
	assert.True(t, deliveries[0].Compressed)
}

func TestReceiverRejectsNonPost(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver()
	defer receiver.Close()

	res, err := http.Get(receiver.URL())
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	require.Zero(t, receiver.DeliveryCount())
}

func TestTokenShape(t *testing.T) {
	t.Parallel()

	token := settest.Token()
	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)
	for i, segment := range segments {
		require.NotEmpty(t, segment, "segment %d", i)
	}

	other := settest.Token()
	require.NotEqual(t, token, other, "tokens should carry unique jti claims")
}

func TestDeliveryClaims(t *testing.T) {
	t.Parallel()

	receiver := settest.NewReceiver()
	defer receiver.Close()

	token := settest.TokenWithClaims(map[string]any{
		"aud": "https://receiver.example.com",
	})
	post(t, receiver.URL(), token, nil)

	deliveries := receiver.Deliveries()
	require.Len(t, deliveries, 1)

	claims, err := deliveries[0].Claims()
	require.NoError(t, err)
	assert.Equal(t, "https://receiver.example.com", claims["aud"])
	assert.Equal(t, "https://issuer.settest.local", claims["iss"])
	assert.NotEmpty(t, claims["jti"])

	t.Run("malformed token", func(t *testing.T) {
		_, err := settest.Delivery{Token: "not-a-token"}.Claims()
		require.Error(t, err)
	})
}
