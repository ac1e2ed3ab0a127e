package postgres

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
)

func TestGalleryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "GalleryRepository Suite")
}

var _ = Describe("GalleryRepository", func() {
	var (
		db     *gorm.DB
		repo   gallery.Repository
		author *auth.User
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&auth.User{}, &gallery.Image{})
		Expect(err).NotTo(HaveOccurred())

		author = &auth.User{
			Name:         "Manajer",
			Email:        "manajer@pabrik.co.id",
			PasswordHash: "hash",
			Role:         auth.RoleManager,
		}
		Expect(db.Create(author).Error).NotTo(HaveOccurred())

		repo = NewGalleryRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).NotTo(HaveOccurred())
	})

	newImage := func(title, category string) *gallery.Image {
		return &gallery.Image{
			Title:    title,
			Category: category,
			ImageURL: "https://cdn.example.com/gallery/" + title + ".jpg",
			PublicID: "gallery/" + title,
			AuthorID: author.ID,
		}
	}

	It("should round-trip an image with its author reference", func() {
		img := newImage("panel", gallery.CategoryMaintenance)
		Expect(repo.Create(img)).NotTo(HaveOccurred())
		Expect(img.ID).NotTo(BeEmpty())

		loaded, err := repo.GetByID(img.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Title).To(Equal("panel"))
		Expect(loaded.Author).NotTo(BeNil())
		Expect(loaded.Author.Name).To(Equal("Manajer"))
	})

	It("should return nil for an unknown id", func() {
		loaded, err := repo.GetByID("tidak-ada")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("should filter the listing by category", func() {
		Expect(repo.Create(newImage("panel", gallery.CategoryMaintenance))).NotTo(HaveOccurred())
		Expect(repo.Create(newImage("pelatihan", gallery.CategoryTraining))).NotTo(HaveOccurred())

		images, err := repo.List(gallery.ListFilter{Category: gallery.CategoryTraining})
		Expect(err).NotTo(HaveOccurred())
		Expect(images).To(HaveLen(1))
		Expect(images[0].Title).To(Equal("pelatihan"))

		all, err := repo.List(gallery.ListFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("should update and delete", func() {
		img := newImage("panel", gallery.CategoryMaintenance)
		Expect(repo.Create(img)).NotTo(HaveOccurred())

		img.Title = "panel utama"
		Expect(repo.Update(img)).NotTo(HaveOccurred())

		loaded, err := repo.GetByID(img.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Title).To(Equal("panel utama"))

		Expect(repo.Delete(img.ID)).NotTo(HaveOccurred())
		loaded, err = repo.GetByID(img.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})
})
