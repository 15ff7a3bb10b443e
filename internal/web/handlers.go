package web

import (
	"embed"
	"net/http"
)

//go:embed templates/*.html
var templates embed.FS

func IndexHandler(w http.ResponseWriter, r *http.Request) {
	serveTemplate(w, "templates/index.html")
}

func PlayerHandler(w http.ResponseWriter, r *http.Request) {
	serveTemplate(w, "templates/player.html")
}

func serveTemplate(w http.ResponseWriter, name string) {
	data, err := templates.ReadFile(name)
	if err != nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(data)
}
