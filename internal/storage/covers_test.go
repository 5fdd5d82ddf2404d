package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Storage Module Suite")
}

// minimal valid PNG header bytes, enough for content sniffing
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

var _ = ginkgo.Describe("FilesystemStore", func() {
	var (
		store *FilesystemStore
		dir   string
	)

	ginkgo.BeforeEach(func() {
		dir = ginkgo.GinkgoT().TempDir()
		var err error
		store, err = NewFilesystemStore(dir, "/static/covers/")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("stores a PNG and returns its public URL", func() {
		url, err := store.UploadCoverImage(pngBytes, "My Cover.png")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(url).To(gomega.HavePrefix("/static/covers/"))
		gomega.Expect(url).To(gomega.HaveSuffix(".png"))
		gomega.Expect(url).To(gomega.ContainSubstring("my-cover"))

		name := strings.TrimPrefix(url, "/static/covers/")
		written, err := os.ReadFile(filepath.Join(dir, name))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(written).To(gomega.Equal(pngBytes))
	})

	ginkgo.It("rejects non-image content before writing anything", func() {
		_, err := store.UploadCoverImage([]byte("<html>not an image</html>"), "sneaky.png")
		gomega.Expect(err).To(gomega.HaveOccurred())

		entries, readErr := os.ReadDir(dir)
		gomega.Expect(readErr).ToNot(gomega.HaveOccurred())
		gomega.Expect(entries).To(gomega.BeEmpty())
	})

	ginkgo.It("rejects an empty upload", func() {
		_, err := store.UploadCoverImage(nil, "empty.png")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("falls back to a generic name for a hostile suggestion", func() {
		url, err := store.UploadCoverImage(pngBytes, "../../../../etc/passwd")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(url).To(gomega.ContainSubstring("passwd"))
		gomega.Expect(url).ToNot(gomega.ContainSubstring(".."))
	})
})
