package settest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// Receiver is an in-process security event receiver for tests.
//
// It records every delivered token, optionally enforces a bearer
// credential, and serves scripted responses so tests can drive the retry
// behavior of the transmitting side. Create one with NewReceiver and stop
// it with Close.
//
// All methods are safe for concurrent use.
type Receiver struct {
	cfg *Config

	mu         sync.Mutex
	deliveries []Delivery
	script     []Response

	httpServer *httptest.Server
}

// NewReceiver starts a receiver on a random local port.
func NewReceiver(opts ...ReceiverOption) *Receiver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Receiver{
		cfg:    cfg,
		script: slices.Clone(cfg.Responses),
	}
	r.httpServer = httptest.NewServer(http.HandlerFunc(r.handle))

	cfg.Logger.Logf("receiver listening at %s", r.httpServer.URL)
	return r
}

// URL returns the receiver's endpoint URL.
func (r *Receiver) URL() string {
	return r.httpServer.URL
}

// Close shuts the receiver down.
func (r *Receiver) Close() {
	r.httpServer.Close()
}

// Deliveries returns a copy of all recorded deliveries, in receive order.
func (r *Receiver) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.deliveries)
}

// DeliveryCount returns the number of recorded deliveries.
func (r *Receiver) DeliveryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}

// Enqueue appends responses to the script. Like WithResponses, but usable
// after the receiver has started.
func (r *Receiver) Enqueue(responses ...Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, responses...)
}

func (r *Receiver) handle(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.cfg.Logger.Logf("rejecting %s request: only POST is supported", req.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if r.cfg.Authorization != "" {
		if auth := req.Header.Get("Authorization"); auth != "Bearer "+r.cfg.Authorization {
			r.cfg.Logger.Logf("rejecting delivery: bad credential %q", auth)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"err":"authentication_failed","description":"bearer credential mismatch"}`)
			return
		}
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.cfg.Logger.Logf("reading delivery body: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	compressed := false
	if req.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			r.cfg.Logger.Logf("opening gzip body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, err = io.ReadAll(zr)
		if err != nil {
			r.cfg.Logger.Logf("decompressing body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		compressed = true
	}

	delivery := Delivery{
		ID:         uuid.NewString(),
		Token:      string(body),
		Headers:    req.Header.Clone(),
		Compressed: compressed,
		ReceivedAt: time.Now(),
	}

	r.mu.Lock()
	r.deliveries = append(r.deliveries, delivery)
	res := Response{Status: http.StatusAccepted}
	if len(r.script) > 0 {
		res = r.script[0]
		r.script = r.script[1:]
	}
	r.mu.Unlock()

	r.cfg.Logger.Logf("delivery %s: %d bytes, responding %d", delivery.ID, len(body), res.Status)

	for name, value := range res.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("X-Delivery-Id", delivery.ID)

	if res.Body == "" && res.Status >= 200 && res.Status < 300 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(res.Status)
		fmt.Fprintf(w, `{"delivery_id":%q}`, delivery.ID)
		return
	}

	w.WriteHeader(res.Status)
	if res.Body != "" {
		fmt.Fprint(w, res.Body)
	}
}
