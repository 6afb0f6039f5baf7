package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"basalt-wiki/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	wiki    *service.WikiService
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the externally
// visible origin, e.g. "https://wiki.example.org".
func NewSeoHandler(wiki *service.WikiService, baseURL string) *SeoHandler {
	return &SeoHandler{wiki: wiki, baseURL: baseURL}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	pages, err := h.wiki.AllPages(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve pages for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(pages)),
	}

	for _, page := range pages {
		if page.Category == nil {
			continue
		}
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/c/%s/%s", h.baseURL, page.Category.Slug, page.Slug),
			LastMod: page.UpdatedAt.Format(sitemapDateFormat),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
