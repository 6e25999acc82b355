// Package names exposes the standalone name normalization and
// transliteration helpers.
package names

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
	"github.com/Ramsey-B/laurel/pkg/translit"
)

// Handler serves name utility requests
type Handler struct {
	matcher *matching.Matcher
	scorer  matching.Scorer
}

// NewHandler creates a new names handler
func NewHandler(matcher *matching.Matcher) *Handler {
	return &Handler{matcher: matcher}
}

// Register registers name utility routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/variants", h.Variants)
	g.GET("/normalized", h.Normalized)
	g.GET("/similarity", h.Similarity)
}

// VariantsResponse lists the spelling variants generated for a name
type VariantsResponse struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Variants returns the transliteration variants of a name
func (h *Handler) Variants(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}

	return c.JSON(http.StatusOK, VariantsResponse{
		Name:     name,
		Variants: translit.Variants(name),
	})
}

// NormalizedResponse carries the normalized forms of a submitted value
type NormalizedResponse struct {
	Name      string `json:"name,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	PersonID  string `json:"person_id,omitempty"`
}

// Normalized returns the normalized forms of a name and/or identifiers.
// Identifier fields come back empty when the input is not a valid INN or
// PINFL.
func (h *Handler) Normalized(c echo.Context) error {
	name := c.QueryParam("name")
	companyID := c.QueryParam("company_id")
	personID := c.QueryParam("person_id")

	if name == "" && companyID == "" && personID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "at least one of name, company_id, person_id is required")
	}

	resp := NormalizedResponse{}
	if name != "" {
		resp.Name = normalizers.MatchName(name)
	}
	if companyID != "" {
		resp.CompanyID = normalizers.CompanyID(companyID)
	}
	if personID != "" {
		resp.PersonID = normalizers.PersonID(personID)
	}

	return c.JSON(http.StatusOK, resp)
}

// SimilarityResponse carries pairwise name similarity scores
type SimilarityResponse struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Score       float64 `json:"score"`
	Levenshtein float64 `json:"levenshtein"`
}

// Similarity returns the token and edit-distance similarity of two names
// after normalization
func (h *Handler) Similarity(c echo.Context) error {
	a := c.QueryParam("a")
	b := c.QueryParam("b")
	if a == "" || b == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "a and b query parameters are required")
	}

	return c.JSON(http.StatusOK, SimilarityResponse{
		A:           a,
		B:           b,
		Score:       h.matcher.Similarity(a, b),
		Levenshtein: h.scorer.LevenshteinRatio(normalizers.MatchName(a), normalizers.MatchName(b)),
	})
}
