package rest

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi"
)

// The portal is API-first; these pages exist so the route guard has real
// navigation targets and operators get a minimal login/dashboard shell
// without a separate frontend deployment.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} - Portal Maintenance</title>
</head>
<body>
  <h1>{{.Heading}}</h1>
  <p>{{.Body}}</p>
</body>
</html>
`))

type pageData struct {
	Title   string
	Heading string
	Body    string
}

func servePage(data pageData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			http.Error(w, "Terjadi kesalahan pada server", http.StatusInternalServerError)
		}
	}
}

func registerPages(router *chi.Mux) {
	router.Get("/", servePage(pageData{
		Title:   "Beranda",
		Heading: "Portal Maintenance",
		Body:    "Portal pelaporan maintenance dan galeri kegiatan.",
	}))
	router.Get("/login", servePage(pageData{
		Title:   "Masuk",
		Heading: "Masuk",
		Body:    "Gunakan POST /api/auth/login untuk masuk.",
	}))
	router.Get("/forgot-password", servePage(pageData{
		Title:   "Lupa Password",
		Heading: "Lupa Password",
		Body:    "Hubungi administrator untuk mengatur ulang password.",
	}))
	router.Get("/dashboard", servePage(pageData{
		Title:   "Dashboard",
		Heading: "Dashboard",
		Body:    "Statistik laporan tersedia di GET /api/reports/stats.",
	}))
	router.Get("/dashboard/reports", servePage(pageData{
		Title:   "Laporan",
		Heading: "Laporan",
		Body:    "Daftar laporan tersedia di GET /api/reports.",
	}))
	router.Get("/dashboard/gallery", servePage(pageData{
		Title:   "Galeri",
		Heading: "Galeri",
		Body:    "Daftar gambar tersedia di GET /api/gallery.",
	}))
}
