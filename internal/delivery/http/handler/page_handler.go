package handler

import (
	"html/template"
	"net/http"
	"time"

	"car-rental-admin/pkg/response"

	"github.com/sirupsen/logrus"
)

var aboutTemplate = template.Must(template.New("about").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>About | {{.Name}}</title>
</head>
<body>
<main class="about">
<h1>{{.Name}}</h1>
<p>Back office for car rental companies: browse, filter and manage bookings.</p>
<p>Version {{.Version}}</p>
</main>
</body>
</html>
`))

// PageHandler serves the static pages and the health probe
type PageHandler struct {
	log     *logrus.Logger
	name    string
	version string
	started time.Time
}

func NewPageHandler(log *logrus.Logger, name, version string) *PageHandler {
	return &PageHandler{
		log:     log,
		name:    name,
		version: version,
		started: time.Now(),
	}
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := aboutTemplate.Execute(w, struct {
		Name    string
		Version string
	}{h.name, h.version})
	if err != nil {
		h.log.Warnf("Failed to render about page: %+v", err)
	}
}

func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
