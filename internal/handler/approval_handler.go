package handler

import (
	"net/http"

	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

// NewApprovalHandler sets up the routing dependencies for approval endpoints
func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/verify", h.VerifyParty)
}

// VerifyParty handles POST /verify
// @Summary      Sign a party's documents
// @Description  Flips one manager's signature flag on every record carrying the party name, across both registers
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.VerifyPartyRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=service.VerifyPartyResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /verify [post]
func (h *ApprovalHandler) VerifyParty(c *gin.Context) {
	var req service.VerifyPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid request payload"))
		return
	}

	result, err := h.approvalService.VerifyParty(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
