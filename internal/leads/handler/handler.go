package handler

import (
	"net/http"

	"homni_backend/internal/leads/domain"
	"homni_backend/internal/leads/pipeline"
	"homni_backend/internal/leads/service"
	"homni_backend/internal/leads/transport"
	"homni_backend/platform/httpkit"
	"homni_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	maxAttachmentMemory = 32 << 20
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes mounts the unauthenticated submission endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
}

// RegisterRoutes mounts the authenticated lead routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/board", h.Board)
	rg.GET("/counts", h.Counts)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/move", h.Move)
	rg.POST("/:id/attachments", h.UploadAttachment)
	rg.GET("/:id/attachments", h.ListAttachments)
	rg.GET("/:id/attachments/:attachmentId", h.DownloadAttachment)
}

// RegisterAdminRoutes mounts the admin-only lead routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/:id/assign", h.Assign)
}

// scopeFor derives the pipeline scope from the caller's identity. Admins
// see everything, company users see their company's pipeline, end users
// see only the leads they submitted.
func scopeFor(ident httpkit.Identity) pipeline.Scope {
	if ident.HasRole(httpkit.RoleAdmin) {
		return pipeline.Scope{}
	}
	if ident.HasRole(httpkit.RoleCompany) {
		return pipeline.Scope{CompanyID: ident.CompanyID()}
	}
	userID := ident.UserID()
	return pipeline.Scope{SubmitterID: &userID}
}

// Submit handles the public lead submission form. No authentication is
// required; the route sits behind a stricter rate limiter instead. When
// the caller does carry a valid token the lead is attributed to them.
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var (
		lead domain.Lead
		err  error
	)
	if ident := httpkit.GetIdentity(c); ident.IsAuthenticated() {
		lead, err = h.svc.SubmitForUser(c.Request.Context(), ident.UserID(), req)
	} else {
		lead, err = h.svc.Submit(c.Request.Context(), req)
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) List(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	leads, err := h.svc.List(c.Request.Context(), scopeFor(ident))
	if httpkit.HandleError(c, err) {
		return
	}

	items := transport.ToLeadResponses(leads)
	httpkit.OK(c, transport.LeadListResponse{Items: items, Total: len(items)})
}

// Board returns the kanban projection: four columns in fixed order plus
// the stage counts.
func (h *Handler) Board(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	board, err := h.svc.Board(c.Request.Context(), scopeFor(ident))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBoardResponse(board.Columns(), board.Counts()))
}

func (h *Handler) Counts(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)
	counts, err := h.svc.Counts(c.Request.Context(), scopeFor(ident))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToCountsResponse(counts))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ident := httpkit.MustGetIdentity(c)
	lead, err := h.svc.GetByID(c.Request.Context(), scopeFor(ident), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	ident := httpkit.MustGetIdentity(c)
	lead, err := h.svc.ChangeStatus(c.Request.Context(), scopeFor(ident), id, domain.RawStatus(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Move handles a drag between board columns.
func (h *Handler) Move(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	ident := httpkit.MustGetIdentity(c)
	lead, err := h.svc.MoveCard(c.Request.Context(), scopeFor(ident), id,
		domain.PipelineStage(req.From), domain.PipelineStage(req.To))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), id, req.CompanyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) UploadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := c.Request.ParseMultipartForm(maxAttachmentMemory); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read file", nil)
		return
	}
	defer file.Close()

	ident := httpkit.MustGetIdentity(c)
	att, err := h.svc.UploadAttachment(
		c.Request.Context(), scopeFor(ident), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file,
	)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToAttachmentResponse(att))
}

func (h *Handler) ListAttachments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ident := httpkit.MustGetIdentity(c)
	items, err := h.svc.ListAttachments(c.Request.Context(), scopeFor(ident), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToAttachmentResponses(items))
}

// DownloadAttachment responds with a short-lived presigned URL rather
// than streaming the object through the API.
func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ident := httpkit.MustGetIdentity(c)
	url, err := h.svc.AttachmentDownloadURL(c.Request.Context(), scopeFor(ident), id, attachmentID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, url)
}
