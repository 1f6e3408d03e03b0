package main

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/config"
	"github.com/aaronzipp/minequiz/internal/handlers"
	"github.com/aaronzipp/minequiz/internal/quiz"
	"github.com/aaronzipp/minequiz/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed assets/questions.txt
var builtinBank []byte

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Fatal("Failed to parse templates: ", err)
	}

	bank, source := loadBank(cfg)

	ctx := &handlers.Context{
		Rooms:             store.NewRoomStore(),
		Templates:         templates,
		Config:            cfg,
		DefaultBank:       bank,
		DefaultBankSource: source,
	}

	mux := ctx.Routes()
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatal("Failed to open static files: ", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	log.Printf("Server starting on http://localhost%s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}

// loadBank reads the configured question bank, falling back to the one
// compiled into the binary
func loadBank(cfg *config.Config) ([]quiz.Question, string) {
	bank, err := cfg.LoadBank()
	if err == nil {
		return bank, filepath.Base(cfg.BankPath())
	}
	log.WithError(err).Warn("using built-in question bank")

	bank, err = quiz.Parse(bytes.NewReader(builtinBank))
	if err != nil {
		log.Fatal("Failed to parse built-in question bank: ", err)
	}
	return bank, "built-in"
}
