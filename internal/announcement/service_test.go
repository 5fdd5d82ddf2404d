package announcement

import (
	"testing"
	"time"

	internal "github.com/jovitools/portal/internal"
	announcementDatamodel "github.com/jovitools/portal/internal/core/datamodel/announcement"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAnnouncement(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Announcement Module Suite")
}

type mockRepo struct {
	items map[string]*announcementDatamodel.Announcement
}

func (m *mockRepo) GetByID(id string) (*announcementDatamodel.Announcement, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, internal.ErrAnnouncementNotFound
}

func (m *mockRepo) List(activeOnly bool) ([]*announcementDatamodel.Announcement, error) {
	var out []*announcementDatamodel.Announcement
	for _, a := range m.items {
		if activeOnly && !a.IsActive {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) Create(a *announcementDatamodel.Announcement) error {
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) Update(a *announcementDatamodel.Announcement) error {
	if _, ok := m.items[a.ID]; !ok {
		return internal.ErrAnnouncementNotFound
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(id string) error {
	if _, ok := m.items[id]; !ok {
		return internal.ErrAnnouncementNotFound
	}
	delete(m.items, id)
	return nil
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

var _ = ginkgo.Describe("AnnouncementService", func() {
	var (
		service *Service
		repo    *mockRepo
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepo{items: map[string]*announcementDatamodel.Announcement{
			"a-1": {ID: "a-1", Title: "Welcome", Content: "Hello", IsActive: true, CreatedAt: time.Now()},
			"a-2": {ID: "a-2", Title: "Maintenance", Content: "Down tonight", IsActive: false, CreatedAt: time.Now()},
		}}
		service = NewService(repo)
	})

	ginkgo.Describe("ListActive", func() {
		ginkgo.It("excludes inactive announcements", func() {
			list, err := service.ListActive()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0].ID).To(gomega.Equal("a-1"))
		})
	})

	ginkgo.Describe("ListAll", func() {
		ginkgo.It("includes inactive announcements", func() {
			list, err := service.ListAll()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("defaults to active", func() {
			a, err := service.Create(CreateAnnouncementDTO{Title: "News", Content: "Body"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a.IsActive).To(gomega.BeTrue())
			gomega.Expect(a.ID).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("honors an explicit inactive flag", func() {
			a, err := service.Create(CreateAnnouncementDTO{Title: "Draft", Content: "Body", IsActive: boolPtr(false)})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a.IsActive).To(gomega.BeFalse())
		})

		ginkgo.It("rejects a missing title", func() {
			_, err := service.Create(CreateAnnouncementDTO{Content: "Body"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects missing content", func() {
			_, err := service.Create(CreateAnnouncementDTO{Title: "News"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("applies partial changes", func() {
			a, err := service.Update("a-1", UpdateAnnouncementDTO{Title: strPtr("Updated")})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a.Title).To(gomega.Equal("Updated"))
			gomega.Expect(a.Content).To(gomega.Equal("Hello"))
		})

		ginkgo.It("rejects an empty title", func() {
			_, err := service.Update("a-1", UpdateAnnouncementDTO{Title: strPtr("")})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ToggleActive", func() {
		ginkgo.It("flips visibility both ways", func() {
			a, err := service.ToggleActive("a-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a.IsActive).To(gomega.BeFalse())

			a, err = service.ToggleActive("a-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a.IsActive).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes an announcement", func() {
			gomega.Expect(service.Delete("a-2")).To(gomega.Succeed())
			_, err := repo.GetByID("a-2")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAnnouncementNotFound))
		})

		ginkgo.It("returns not found for an unknown id", func() {
			gomega.Expect(service.Delete("a-missing")).To(gomega.MatchError(internal.ErrAnnouncementNotFound))
		})
	})
})
