package hydro_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHydro(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hydro Suite")
}
