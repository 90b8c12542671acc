package setpush_test

import (
	"context"
	"net/http"
	"time"

	"github.com/setpush/setpush"
	"github.com/setpush/setpush/internal/testhelpers"
	"github.com/setpush/setpush/mocks"
	"github.com/setpush/setpush/settest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transmit", func() {
	var (
		ctx      context.Context
		receiver *settest.Receiver
	)

	BeforeEach(func() {
		ctx = context.Background()
		receiver = settest.NewReceiver(
			settest.WithLogger(settest.NewWriterLogger(GinkgoWriter)),
		)
		DeferCleanup(receiver.Close)
	})

	It("delivers a token and records it at the receiver", func() {
		token := settest.Token()

		result, err := setpush.Transmit(ctx, token, receiver.URL(),
			setpush.WithAuthToken("demo-credential"),
			setpush.WithHeader("X-Tenant", "t1"),
			setpush.WithLogger(testhelpers.NewTestLogger()))
		Expect(err).NotTo(HaveOccurred())

		By("Verifying the outcome")
		Expect(result.Success).To(BeTrue())
		Expect(result.StatusCode).To(Equal(http.StatusAccepted))
		Expect(result.Attempts).To(Equal(1))
		Expect(result.Headers).To(HaveKey("x-delivery-id"))

		By("Verifying the delivery on the receiving side")
		deliveries := receiver.Deliveries()
		Expect(deliveries).To(HaveLen(1))
		Expect(deliveries[0].Token).To(Equal(token))
		Expect(deliveries[0].Headers.Get("Content-Type")).To(Equal("application/secevent+jwt"))
		Expect(deliveries[0].Headers.Get("Accept")).To(Equal("application/json"))
		Expect(deliveries[0].Headers.Get("Authorization")).To(Equal("Bearer demo-credential"))
		Expect(deliveries[0].Headers.Get("X-Tenant")).To(Equal("t1"))
		Expect(deliveries[0].ID).To(Equal(result.Headers["x-delivery-id"]))

		By("Verifying the acknowledgement body was parsed")
		Expect(result.Body).To(HaveKeyWithValue("delivery_id", deliveries[0].ID))
	})

	It("retries through transient failures until accepted", func() {
		receiver.Enqueue(settest.Unavailable(), settest.Unavailable())

		result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
			setpush.WithBackoff(0))
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Success).To(BeTrue())
		Expect(result.Attempts).To(Equal(3))
		Expect(receiver.DeliveryCount()).To(Equal(3))
	})

	It("waits out a Retry-After hint before the next attempt", func() {
		receiver.Enqueue(settest.Throttled("30"))

		// With zero base backoff the retry would otherwise be immediate;
		// the 30s hint is clamped down to the backoff cap.
		result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
			setpush.WithBackoff(0),
			setpush.WithMaxBackoff(100*time.Millisecond))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())
		Expect(result.Attempts).To(Equal(2))

		deliveries := receiver.Deliveries()
		Expect(deliveries).To(HaveLen(2))
		gap := deliveries[1].ReceivedAt.Sub(deliveries[0].ReceivedAt)
		Expect(gap).To(BeNumerically(">=", 100*time.Millisecond))
		Expect(gap).To(BeNumerically("<", 5*time.Second))
	})

	It("reports a rejection through the result instead of an error", func() {
		receiver.Enqueue(settest.Rejected(http.StatusBadRequest, "unparsable token"))

		result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Success).To(BeFalse())
		Expect(result.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(result.ErrorMessage).To(ContainSubstring("got status code 400"))
		Expect(result.Retryable).To(BeFalse())
		Expect(result.Body).To(HaveKeyWithValue("description", "unparsable token"))
		Expect(receiver.DeliveryCount()).To(Equal(1))
	})

	It("keeps the retryable flag when attempts run out on a transient status", func() {
		receiver.Enqueue(settest.Unavailable(), settest.Unavailable(), settest.Unavailable())

		result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
			setpush.WithBackoff(0))
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Success).To(BeFalse())
		Expect(result.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(result.Retryable).To(BeTrue())
		Expect(result.Attempts).To(Equal(3))
	})

	It("rejects tokens that are not JWS-shaped before any dispatch", func() {
		result, err := setpush.Transmit(ctx, "not-a-token", receiver.URL())
		Expect(err).To(MatchError(setpush.ErrInvalidToken))
		Expect(result).To(BeNil())
		Expect(receiver.DeliveryCount()).To(BeZero())
	})

	It("raises a transport error when the receiver is unreachable", func() {
		destination := receiver.URL()
		receiver.Close()

		result, err := setpush.Transmit(ctx, settest.Token(), destination,
			setpush.WithBackoff(0))
		Expect(err).To(MatchError(setpush.ErrTransportFailure))
		Expect(result).To(BeNil())
	})

	It("delivers compressed tokens transparently", func() {
		token := settest.Token()

		result, err := setpush.Transmit(ctx, token, receiver.URL(),
			setpush.WithGzipCompression())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())

		deliveries := receiver.Deliveries()
		Expect(deliveries).To(HaveLen(1))
		Expect(deliveries[0].Compressed).To(BeTrue())
		Expect(deliveries[0].Token).To(Equal(token))
	})

	Context("with authorization enforced at the receiver", func() {
		BeforeEach(func() {
			receiver = settest.NewReceiver(
				settest.WithAuthorization("expected-credential"),
			)
			DeferCleanup(receiver.Close)
		})

		It("authenticates with the configured credential", func() {
			result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
				setpush.WithAuthToken("expected-credential"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())
		})

		It("surfaces a credential mismatch as a failed result", func() {
			result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
				setpush.WithAuthToken("wrong-credential"))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Success).To(BeFalse())
			Expect(result.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(result.Retryable).To(BeFalse())
			Expect(result.Body).To(HaveKeyWithValue("err", "authentication_failed"))
		})
	})

	Context("with a reusable transmitter", func() {
		It("applies defaults to every call and keeps per-call options isolated", func() {
			sender, err := setpush.New(
				setpush.WithAuthToken("base-credential"),
				setpush.WithHeader("X-Tenant", "t1"),
			)
			Expect(err).NotTo(HaveOccurred())

			_, err = sender.Transmit(ctx, settest.Token(), receiver.URL(),
				setpush.WithHeader("X-Trace", "trace-1"))
			Expect(err).NotTo(HaveOccurred())

			_, err = sender.Transmit(ctx, settest.Token(), receiver.URL())
			Expect(err).NotTo(HaveOccurred())

			deliveries := receiver.Deliveries()
			Expect(deliveries).To(HaveLen(2))
			Expect(deliveries[0].Headers.Get("Authorization")).To(Equal("Bearer base-credential"))
			Expect(deliveries[0].Headers.Get("X-Tenant")).To(Equal("t1"))
			Expect(deliveries[0].Headers.Get("X-Trace")).To(Equal("trace-1"))
			Expect(deliveries[1].Headers.Get("Authorization")).To(Equal("Bearer base-credential"))
			Expect(deliveries[1].Headers.Get("X-Tenant")).To(Equal("t1"))
			Expect(deliveries[1].Headers.Get("X-Trace")).To(BeEmpty())
		})
	})

	Context("logging", func() {
		It("logs delivery milestones through the configured logger", func() {
			logger := &mocks.FakeLogger{}

			result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
				setpush.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())

			Expect(logger.DebugCallCount()).To(BeNumerically(">=", 1))
			msg, _ := logger.DebugArgsForCall(0)
			Expect(msg).To(Equal("dispatching token"))

			Expect(logger.InfoCallCount()).To(Equal(1))
			msg, _ = logger.InfoArgsForCall(0)
			Expect(msg).To(Equal("token accepted"))
		})

		It("logs rejections at error level", func() {
			logger := &mocks.FakeLogger{}
			receiver.Enqueue(settest.Rejected(http.StatusForbidden, "audience mismatch"))

			result, err := setpush.Transmit(ctx, settest.Token(), receiver.URL(),
				setpush.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeFalse())

			Expect(logger.ErrorCallCount()).To(Equal(1))
			msg, _ := logger.ErrorArgsForCall(0)
			Expect(msg).To(Equal("token rejected"))
		})
	})
})
