package texture

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTexture(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "texture pipeline scenarios")
}
