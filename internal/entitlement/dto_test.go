package entitlement

import (
	"github.com/jovitools/portal/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("SetGrantsDTO validation", func() {
	ginkgo.It("accepts a set with a positive duration", func() {
		days := 30
		dto := SetGrantsDTO{PlatformIDs: []string{"plat-a"}, DurationDays: &days}
		gomega.Expect(dto.Validate()).To(gomega.Succeed())
	})

	ginkgo.It("accepts a nil duration as lifetime", func() {
		dto := SetGrantsDTO{PlatformIDs: []string{"plat-a"}}
		gomega.Expect(dto.Validate()).To(gomega.Succeed())
	})

	ginkgo.It("rejects a non-positive duration with the field detail", func() {
		days := -5
		dto := SetGrantsDTO{PlatformIDs: []string{"plat-a"}, DurationDays: &days}

		err := dto.Validate()
		gomega.Expect(err).To(gomega.HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		details, ok := appErr.Details.(internal.ValidationErrors)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(details.Errors).To(gomega.HaveLen(1))
		gomega.Expect(details.Errors[0].Field).To(gomega.Equal("duration_days"))
		gomega.Expect(details.Errors[0].Code).To(gomega.Equal(string(internal.ErrCodeInvalidDuration)))
	})

	ginkgo.It("rejects empty platform ids", func() {
		dto := SetGrantsDTO{PlatformIDs: []string{"plat-a", ""}}
		gomega.Expect(dto.Validate()).NotTo(gomega.Succeed())
	})
})
