package cmd

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/collector"
	"mspro-labs/college-scout/internal/models"
	"mspro-labs/college-scout/internal/web"
)

// Helper for templates
var funcMap = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Web UI form",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default SCOUT_SERVER_PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

// collectFunc is the part of the collector the web handlers need.
type collectFunc func(ctx context.Context, req collector.Request) (*collector.Report, error)

// pageData feeds home.html: the form values and, after a submit, the outcome.
type pageData struct {
	Stream   string
	City     string
	SheetURL string
	Report   *collector.Report
	Status   string
	Error    string
}

func runServer() error {
	c := newCollector()
	mux, err := newMux(c.Collect, appCfg.Sheets.SheetURL)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = appCfg.Server.Port
	}
	addr := fmt.Sprintf(":%d", port)
	zap.L().Info("web UI started", zap.String("url", "http://localhost"+addr))

	// A scrape holds the request open while the browser renders and scrolls.
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return server.ListenAndServe()
}

func newMux(collect collectFunc, defaultSheet string) (*http.ServeMux, error) {
	// Base Template (shared layout + funcs), then the form page on top.
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(web.GetTemplatesFS(), "templates/base.html")
	if err != nil {
		return nil, eris.Wrap(err, "parse base template")
	}
	homeTmpl, err := template.Must(base.Clone()).ParseFS(web.GetTemplatesFS(), "templates/home.html")
	if err != nil {
		return nil, eris.Wrap(err, "parse home template")
	}

	render := func(w http.ResponseWriter, status int, data pageData) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := homeTmpl.ExecuteTemplate(w, "base.html", data); err != nil {
			zap.L().Error("template error", zap.Error(err))
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, pageData{SheetURL: defaultSheet})
	})

	mux.HandleFunc("POST /collect", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		data := pageData{
			Stream:   r.PostForm.Get("stream"),
			City:     r.PostForm.Get("city"),
			SheetURL: r.PostForm.Get("sheet_url"),
		}

		sr, err := models.NewScrapeRequest(data.Stream, data.City)
		if err != nil {
			data.Error = "Please enter both a stream and a city."
			render(w, http.StatusBadRequest, data)
			return
		}

		rep, err := collect(r.Context(), collector.Request{Scrape: sr, SheetURL: data.SheetURL})
		if err != nil {
			zap.L().Error("collect failed", zap.Error(err))
			data.Error = "The browser could not be started. Check the server logs."
			render(w, http.StatusInternalServerError, data)
			return
		}

		data.Report = rep
		data.Status = statusMessage(rep)
		render(w, http.StatusOK, data)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux, nil
}
