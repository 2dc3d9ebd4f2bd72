package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ProofHandlerParams holds dependencies for ProofHandler, injected by Fx.
type ProofHandlerParams struct {
	fx.In

	ProofUC usecase.ProofUsecase
	Logger  *slog.Logger
}

// ProofHandler serves payment proof uploads and the admin review workflow.
type ProofHandler struct {
	proofUC usecase.ProofUsecase
	logger  *slog.Logger
}

// NewProofHandler is the constructor for ProofHandler.
func NewProofHandler(params ProofHandlerParams) *ProofHandler {
	return &ProofHandler{
		proofUC: params.ProofUC,
		logger:  params.Logger,
	}
}

// UpdateProofStatusRequest is the body of an approval or rejection.
type UpdateProofStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignSDGRequest is the body of an SDG assignment.
type AssignSDGRequest struct {
	SDGID int `json:"sdgId" validate:"required"`
}

// ProofReviewResponse is a reviewed proof together with what routing did.
type ProofReviewResponse struct {
	Proof          *entity.PaymentProof   `json:"proof"`
	Routed         bool                   `json:"routed"`
	RoutingOutcome usecase.RoutingOutcome `json:"routing_outcome"`
	Investment     *entity.Investment     `json:"investment,omitempty"`
}

func newProofReviewResponse(result *usecase.ProofReviewResult) *ProofReviewResponse {
	resp := &ProofReviewResponse{
		Proof:  result.Proof,
		Routed: result.Routing.Routed(),
	}
	if result.Routing != nil {
		resp.RoutingOutcome = result.Routing.Outcome
		resp.Investment = result.Routing.Investment
	}

	return resp
}

// UploadProof handles a multipart upload with fields amount, consumption_record_id, sdg_id and file.
func (h *ProofHandler) UploadProof(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return errors.WithStack(domainerrors.ErrInvalidAmount)
	}

	input := &usecase.UploadProofInput{Owner: owner, Amount: amount}

	if raw := c.FormValue("consumption_record_id"); raw != "" {
		recordID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid consumption_record_id")
		}
		input.ConsumptionRecordID = &recordID
	}

	if raw := c.FormValue("sdg_id"); raw != "" {
		sdgID, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid sdg_id")
		}
		input.SDGID = &sdgID
	}

	header, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Proof file is required")
	}
	upload, file, err := openUpload(header)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()
	input.File = upload

	proof, err := h.proofUC.UploadProof(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, proof)
}

// ListOwnerProofs lists the caller's proofs.
func (h *ProofHandler) ListOwnerProofs(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	proofs, err := h.proofUC.ListOwnerProofs(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, proofs)
}

// ListProofs lists every proof, optionally filtered by ?status=.
func (h *ProofHandler) ListProofs(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	filter := repository.ProofFilter{Limit: limit, Offset: offset}
	if raw := c.QueryParam("status"); raw != "" {
		status := entity.ProofStatus(raw)
		if !status.IsValid() {
			return errors.WithStack(domainerrors.ErrInvalidProofStatus)
		}
		filter.Status = &status
	}

	proofs, err := h.proofUC.ListProofs(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, proofs)
}

// GetProof returns one proof.
func (h *ProofHandler) GetProof(c echo.Context) error {
	proofID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	proof, err := h.proofUC.GetProof(c.Request().Context(), proofID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, proof)
}

// UpdateProofStatus approves or rejects a proof.
func (h *ProofHandler) UpdateProofStatus(c echo.Context) error {
	proofID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateProofStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.proofUC.UpdateProofStatus(c.Request().Context(), proofID, entity.ProofStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProofReviewResponse(result))
}

// AssignSDG sets the SDG of a proof.
func (h *ProofHandler) AssignSDG(c echo.Context) error {
	proofID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AssignSDGRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.proofUC.AssignSDG(c.Request().Context(), proofID, req.SDGID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProofReviewResponse(result))
}
