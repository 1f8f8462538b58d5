package analytics

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware records a view for every successful HTML page load. Asset,
// feed, and API paths are skipped; so is anything but GET.
func Middleware(s *Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || c.Request().Method != http.MethodGet {
				return err
			}
			if c.Response().Status >= 300 {
				return nil
			}
			path := c.Request().URL.Path
			if !trackable(path) {
				return nil
			}
			if rerr := s.RecordView(path); rerr != nil {
				c.Logger().Warnf("analytics: record view: %v", rerr)
			}
			return nil
		}
	}
}

func trackable(path string) bool {
	if path == "/" {
		return true
	}
	if strings.HasPrefix(path, "/post/") {
		return true
	}
	return false
}

// Handler serves the view counts as JSON at a stats endpoint.
type Handler struct {
	store *Store
}

// NewHandler builds a Handler over store.
func NewHandler(s *Store) *Handler {
	return &Handler{store: s}
}

// Stats responds with the total and the top pages.
func (h *Handler) Stats(c echo.Context) error {
	total, err := h.store.Total()
	if err != nil {
		return err
	}
	top, err := h.store.TopPages(20)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total": total,
		"pages": top,
	})
}
