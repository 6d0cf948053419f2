package olx

import (
	"net/url"
	"strconv"
	"strings"

	"olx-scraper/models"
)

// BuildSearchURL encodes a page request as a fully-qualified search
// URL. Unset optional fields are dropped entirely — a key is never
// emitted with an empty value — and multi-valued facets repeat the
// elbh key in their given order. The page parameter o is always
// present and 1-based.
func BuildSearchURL(origin string, req models.PageRequest) string {
	path := req.Spec.CategoryPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	q := url.Values{}
	if term := strings.TrimSpace(req.Spec.Term); term != "" {
		q.Set("q", term)
	}
	if req.Spec.PriceMin > 0 {
		q.Set("ps", strconv.Itoa(req.Spec.PriceMin))
	}
	if req.Spec.PriceMax > 0 {
		q.Set("pe", strconv.Itoa(req.Spec.PriceMax))
	}
	if req.Spec.Sort != models.SortDefault {
		q.Set("opst", strconv.Itoa(int(req.Spec.Sort)))
	}
	for _, facet := range req.Spec.Facets {
		q.Add("elbh", strconv.Itoa(facet))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	q.Set("o", strconv.Itoa(page))

	return origin + path + "?" + q.Encode()
}
