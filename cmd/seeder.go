package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
	"github.com/rizkypratama/maintenance-portal/internal/report"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"gallery_images", "reports", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		users := []auth.User{
			{Email: "admin@pabrik.co.id", Name: "Administrator", Role: auth.RoleAdmin, PasswordHash: string(hash)},
			{Email: "manajer@pabrik.co.id", Name: "Manajer Produksi", Role: auth.RoleManager, PasswordHash: string(hash)},
			{Email: "teknisi@pabrik.co.id", Name: "Teknisi Lapangan", Role: auth.RoleStaff, PasswordHash: string(hash)},
		}

		byEmail := make(map[string]string, len(users))
		for i := range users {
			u := &users[i]
			var existing auth.User
			err := db.Where("email = ?", u.Email).First(&existing).Error
			if err == nil {
				byEmail[u.Email] = existing.ID
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to check user %s: %v", u.Email, err)
			}
			if err := db.Create(u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			byEmail[u.Email] = u.ID
			fmt.Println("Seeded user:", u.Email)
		}

		staffID := byEmail["teknisi@pabrik.co.id"]
		desc := "Pengecekan rutin mesin produksi lini 2."
		reports := []report.Report{
			{Title: "Inspeksi Harian Lini 2", Type: report.TypeDaily, Date: time.Now().AddDate(0, 0, -1), Description: &desc, Status: report.StatusPending, AuthorID: staffID},
			{Title: "Rekap Mingguan Perawatan", Type: report.TypeWeekly, Date: time.Now().AddDate(0, 0, -7), Status: report.StatusApproved, AuthorID: staffID},
		}
		for i := range reports {
			rep := &reports[i]
			var count int64
			db.Model(&report.Report{}).Where("title = ?", rep.Title).Count(&count)
			if count > 0 {
				continue
			}
			if err := db.Create(rep).Error; err != nil {
				log.Fatalf("failed to insert report %q: %v", rep.Title, err)
			}
			fmt.Println("Seeded report:", rep.Title)
		}

		images := []gallery.Image{
			{
				Title:    "Perawatan Panel Listrik",
				Category: gallery.CategoryMaintenance,
				ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg",
				PublicID: "gallery/sample-panel",
				AuthorID: byEmail["manajer@pabrik.co.id"],
			},
		}
		for i := range images {
			img := &images[i]
			var count int64
			db.Model(&gallery.Image{}).Where("title = ?", img.Title).Count(&count)
			if count > 0 {
				continue
			}
			if err := db.Create(img).Error; err != nil {
				log.Fatalf("failed to insert gallery image %q: %v", img.Title, err)
			}
			fmt.Println("Seeded gallery image:", img.Title)
		}

		fmt.Println("Seeding finished")
	},
}
