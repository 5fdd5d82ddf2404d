package entitlement_test

import (
	"testing"
	"time"

	internal "github.com/jovitools/portal/internal"
	entitlementPostgres "github.com/jovitools/portal/internal/entitlement/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestEntitlementPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Entitlement Postgres Suite")
}

// Table definitions mirror db/migrations, with sqlite-compatible defaults.
// Keeping the text primary keys verbatim matters: the repository must supply
// the grant id itself, nothing here auto-increments.
var schemaDDL = []string{
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY NOT NULL,
		user_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		name TEXT,
		has_access BOOLEAN NOT NULL DEFAULT FALSE,
		access_expires_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE platform_grants (
		id TEXT PRIMARY KEY NOT NULL,
		profile_id TEXT NOT NULL,
		platform_id TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX idx_profile_platform ON platform_grants (profile_id, platform_id)`,
}

var _ = Describe("Entitlement Repository", func() {
	var (
		db   *gorm.DB
		repo *entitlementPostgres.Repository
	)

	seedGrant := func(id, profileID, platformID string) {
		Expect(db.Exec(
			"INSERT INTO platform_grants (id, profile_id, platform_id) VALUES (?, ?, ?)",
			id, profileID, platformID,
		).Error).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		for _, ddl := range schemaDDL {
			Expect(db.Exec(ddl).Error).NotTo(HaveOccurred())
		}

		repo = entitlementPostgres.NewRepository(db)

		Expect(db.Exec(
			"INSERT INTO profiles (id, user_id, email, has_access) VALUES (?, ?, ?, ?)",
			"p-1", "u-1", "member@example.com", false,
		).Error).NotTo(HaveOccurred())
	})

	Describe("GetAccount", func() {
		It("loads the profile by user id", func() {
			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.ProfileID).To(Equal("p-1"))
			Expect(account.Email).To(Equal("member@example.com"))
			Expect(account.HasAccess).To(BeFalse())
		})

		It("returns not found for an unknown user", func() {
			_, err := repo.GetAccount("u-missing")
			Expect(err).To(MatchError(internal.ErrProfileNotFound))
		})
	})

	Describe("ReconcileGrants", func() {
		It("inserts additions with generated ids against the text primary key", func() {
			Expect(repo.ReconcileGrants("p-1", nil, []string{"plat-a"}, true, nil)).To(Succeed())

			var rows []struct {
				ID         string
				PlatformID string
			}
			Expect(db.Raw("SELECT id, platform_id FROM platform_grants WHERE profile_id = ?", "p-1").
				Scan(&rows).Error).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).NotTo(BeEmpty())
			Expect(rows[0].PlatformID).To(Equal("plat-a"))
		})

		It("applies removals, additions and the profile update together", func() {
			seedGrant("g-1", "p-1", "plat-a")
			seedGrant("g-2", "p-1", "plat-b")

			expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			err := repo.ReconcileGrants("p-1", []string{"plat-a"}, []string{"plat-c"}, true, &expiry)
			Expect(err).NotTo(HaveOccurred())

			ids, err := repo.GetGrantedPlatformIDs("p-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf("plat-b", "plat-c"))

			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.HasAccess).To(BeTrue())
			Expect(account.AccessExpiresAt).NotTo(BeNil())
		})

		It("clears the expiration when nil is written", func() {
			expiry := time.Now().Add(24 * time.Hour)
			Expect(repo.ReconcileGrants("p-1", nil, []string{"plat-a"}, true, &expiry)).To(Succeed())

			Expect(repo.ReconcileGrants("p-1", []string{"plat-a"}, nil, false, nil)).To(Succeed())

			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.HasAccess).To(BeFalse())
			Expect(account.AccessExpiresAt).To(BeNil())

			ids, err := repo.GetGrantedPlatformIDs("p-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(BeEmpty())
		})

		It("rolls back the whole diff when an addition conflicts", func() {
			seedGrant("g-1", "p-1", "plat-a")
			seedGrant("g-2", "p-1", "plat-b")

			// plat-b is already present, so inserting it again violates the
			// unique pair index and must undo the removal of plat-a.
			err := repo.ReconcileGrants("p-1", []string{"plat-a"}, []string{"plat-b"}, true, nil)
			Expect(err).To(HaveOccurred())

			ids, err := repo.GetGrantedPlatformIDs("p-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf("plat-a", "plat-b"))
		})
	})

	Describe("UpdateExpiration", func() {
		It("persists only the expiration", func() {
			expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			Expect(repo.UpdateExpiration("p-1", &expiry)).To(Succeed())

			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.AccessExpiresAt).NotTo(BeNil())
			Expect(account.HasAccess).To(BeFalse())
		})

		It("returns not found for an unknown profile", func() {
			expiry := time.Now()
			Expect(repo.UpdateExpiration("p-missing", &expiry)).To(MatchError(internal.ErrProfileNotFound))
		})
	})

	Describe("SetBlocked and SetUnblocked", func() {
		It("unblocking sets the flag and the expiration", func() {
			expiry := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
			Expect(repo.SetUnblocked("p-1", expiry)).To(Succeed())

			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.HasAccess).To(BeTrue())
			Expect(account.AccessExpiresAt).NotTo(BeNil())
		})

		It("blocking leaves the expiration in place", func() {
			expiry := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
			Expect(repo.SetUnblocked("p-1", expiry)).To(Succeed())
			Expect(repo.SetBlocked("p-1")).To(Succeed())

			account, err := repo.GetAccount("u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(account.HasAccess).To(BeFalse())
			Expect(account.AccessExpiresAt).NotTo(BeNil())
		})
	})
})
