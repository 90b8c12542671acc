package setpush_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransmission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transmission Suite")
}
