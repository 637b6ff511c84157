package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhngvn/scholarship-hub/internal/catalog"
	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/search"
)

// PublicHandler serves the unauthenticated browse surface straight
// from the catalog; no browse request touches the database.
type PublicHandler struct {
	Catalog *catalog.Catalog
}

func NewPublicHandler(cat *catalog.Catalog) *PublicHandler {
	return &PublicHandler{Catalog: cat}
}

// ListScholarships returns every listing, newest first, with hidden
// comments stripped.
func (h *PublicHandler) ListScholarships(c echo.Context) error {
	items := search.Filter(h.Catalog.All(), search.Query{Language: langParam(c)})
	return c.JSON(http.StatusOK, echo.Map{"items": viewScholarships(items, false)})
}

// GetScholarship returns one listing or 404.
func (h *PublicHandler) GetScholarship(c echo.Context) error {
	s, found := h.Catalog.Get(strings.TrimSpace(c.Param("id")))
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
	}
	return c.JSON(http.StatusOK, viewScholarship(s, false))
}

// SearchScholarships filters by free text and tags, then paginates.
// Matching is pure in-memory work over the catalog snapshot: tag
// selection ORs within itself and ANDs with the text match, text
// matches the active-locale title/organization/description, and
// results sort newest first.
func (h *PublicHandler) SearchScholarships(c echo.Context) error {
	q := search.Query{
		Term:     strings.TrimSpace(c.QueryParam("q")),
		Language: langParam(c),
	}
	if raw := strings.TrimSpace(c.QueryParam("tags")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	res := search.Run(h.Catalog.All(), q)
	return c.JSON(http.StatusOK, echo.Map{
		"data":        viewScholarships(res.Items, false),
		"total":       res.Total,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}

// ListTags exposes the controlled tag vocabulary.
func (h *PublicHandler) ListTags(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tags": model.TagKeys})
}
