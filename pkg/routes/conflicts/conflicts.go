// Package conflicts exposes the conflict check endpoint.
package conflicts

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/laurel/pkg/conflicts"
	"github.com/Ramsey-B/laurel/pkg/models"
)

var validate = validator.New()

// Handler serves conflict check requests
type Handler struct {
	service *conflicts.Service
}

// NewHandler creates a new conflicts handler
func NewHandler(service *conflicts.Service) *Handler {
	return &Handler{service: service}
}

// Register registers conflict routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/check", h.Check)
}

// PartyRequest describes one side of a case in a check request
type PartyRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind" validate:"omitempty,oneof=legal_entity individual"`
	CompanyID string `json:"company_id"`
	PersonID  string `json:"person_id"`
}

// AffiliateRequest describes an affiliated entity in a check request
type AffiliateRequest struct {
	PartyRequest
	Role string `json:"role" validate:"required,oneof=related_company related_individual founder director beneficiary"`
}

// CheckRequest is the request body for the conflict check endpoint. ID is
// zero for ad-hoc checks on cases that have not been persisted yet.
type CheckRequest struct {
	ID         int64              `json:"id"`
	CaseNumber string             `json:"case_number"`
	Client     PartyRequest       `json:"client"`
	Opponent   PartyRequest       `json:"opponent"`
	Affiliates []AffiliateRequest `json:"affiliates" validate:"omitempty,dive"`
	LawyerIDs  []int64            `json:"lawyer_ids"`
}

// Check runs a conflict check for the submitted case snapshot
func (h *Handler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snapshot := toSnapshot(req)
	if snapshot.Client.IsEmpty() && snapshot.Opponent.IsEmpty() {
		return httperror.NewHTTPError(http.StatusBadRequest, "at least one party must be provided")
	}

	report := h.service.CheckConflicts(ctx, snapshot)

	return c.JSON(http.StatusOK, report)
}

func toSnapshot(req CheckRequest) models.CaseSnapshot {
	snapshot := models.CaseSnapshot{
		ID:         req.ID,
		CaseNumber: req.CaseNumber,
		Client:     toParty(req.Client),
		Opponent:   toParty(req.Opponent),
		LawyerIDs:  req.LawyerIDs,
	}
	for _, a := range req.Affiliates {
		snapshot.Affiliates = append(snapshot.Affiliates, models.AffiliatedEntity{
			PartyDescriptor: toParty(a.PartyRequest),
			Role:            models.RoleCategory(a.Role),
		})
	}
	return snapshot
}

func toParty(req PartyRequest) models.PartyDescriptor {
	kind := models.PartyKind(req.Kind)
	if kind == "" {
		kind = models.PartyKindLegalEntity
		if req.PersonID != "" {
			kind = models.PartyKindIndividual
		}
	}
	return models.PartyDescriptor{
		Name:      req.Name,
		Kind:      kind,
		CompanyID: req.CompanyID,
		PersonID:  req.PersonID,
	}
}
