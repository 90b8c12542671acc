// Package settest provides testing utilities for setpush-based applications.
//
// It includes an in-process security event receiver with scripted
// responses, helpers for minting JWS-shaped test tokens, and logging
// adapters for standard Go tests and Ginkgo suites.
//
// # Basic Usage
//
//	receiver := settest.NewReceiver()
//	defer receiver.Close()
//
//	result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL())
//	if err != nil {
//		t.Fatal(err)
//	}
//
//	deliveries := receiver.Deliveries()
//	// Inspect deliveries[0].Token, deliveries[0].Headers, ...
//
// Responses can be scripted to drive the retry behavior of the caller:
//
//	receiver := settest.NewReceiver(settest.WithResponses(
//		settest.Throttled("2"),
//		settest.Accepted(),
//	))
//
// For more examples, see the example tests in this package.
package settest
