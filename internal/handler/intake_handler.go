package handler

import (
	"net/http"

	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/Sachinsen7/grin/pkg/pagination"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
)

type IntakeHandler struct {
	intakeService service.IntakeService
}

// NewIntakeHandler sets up the routing dependencies for intake endpoints
func NewIntakeHandler(intakeService service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// RegisterRoutes binds the intake endpoints to an authenticated group.
func (h *IntakeHandler) RegisterRoutes(router *gin.RouterGroup) {
	gsn := router.Group("/gsn")
	{
		gsn.POST("/upload-data", h.UploadGsn)
		gsn.GET("/getdata", h.ListGsn)
		gsn.POST("/getdata/verify", h.VerifyGsn)
		gsn.DELETE("/upload-data/delete-by-party/:partyName", h.DeleteByParty)
		gsn.PUT("/upload-data/update-by-party/:partyName", h.UpdateByParty)
	}

	router.POST("/upload-data", h.UploadGrin)
	router.GET("/getdata", h.ListGrin)
	router.GET("/entries", h.ListGrin)
}

// UploadGsn handles POST /gsn/upload-data
// @Summary      Create GSN entry
// @Description  Accepts a multipart intake form with optional bill and photo attachments
// @Tags         intake
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=model.GsnEntry}
// @Failure      400  {object}  response.Response
// @Router       /gsn/upload-data [post]
func (h *IntakeHandler) UploadGsn(c *gin.Context) {
	var form service.EntryForm
	if err := c.ShouldBind(&form); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid form data: "+err.Error()))
		return
	}

	entry, err := h.intakeService.CreateGsn(c.Request.Context(), form)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, entry)
}

// UploadGrin handles POST /upload-data
// @Summary      Create GRIN entry
// @Tags         intake
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=model.GrinEntry}
// @Failure      400  {object}  response.Response
// @Router       /upload-data [post]
func (h *IntakeHandler) UploadGrin(c *gin.Context) {
	var form service.EntryForm
	if err := c.ShouldBind(&form); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid form data: "+err.Error()))
		return
	}

	entry, err := h.intakeService.CreateGrin(c.Request.Context(), form)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, entry)
}

// ListGsn handles GET /gsn/getdata
// @Summary      List GSN entries
// @Tags         intake
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Router       /gsn/getdata [get]
func (h *IntakeHandler) ListGsn(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.intakeService.ListGsn(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	})
}

// ListGrin handles GET /getdata and GET /entries
// @Summary      List GRIN entries
// @Tags         intake
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Router       /getdata [get]
func (h *IntakeHandler) ListGrin(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.intakeService.ListGrin(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	})
}

// VerifyGsn handles POST /gsn/getdata/verify for a single entry
// @Summary      Sign one GSN entry
// @Description  Flips one manager's signature flag or the hidden flag on a single entry
// @Tags         intake
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.VerifyEntryRequest  true  "Verification Payload"
// @Success      200      {object}  response.Response{data=model.GsnEntry}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /gsn/getdata/verify [post]
func (h *IntakeHandler) VerifyGsn(c *gin.Context) {
	var req service.VerifyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid request payload"))
		return
	}

	entry, err := h.intakeService.VerifyGsn(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, entry)
}

// DeleteByParty handles DELETE /gsn/upload-data/delete-by-party/:partyName
// @Summary      Delete a party's GSN entries
// @Tags         intake
// @Produce      json
// @Security     BearerAuth
// @Param        partyName  path      string  true  "Party name"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /gsn/upload-data/delete-by-party/{partyName} [delete]
func (h *IntakeHandler) DeleteByParty(c *gin.Context) {
	deleted, err := h.intakeService.DeleteGsnByParty(c.Request.Context(), c.Param("partyName"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deletedCount": deleted})
}

// UpdateByParty handles PUT /gsn/upload-data/update-by-party/:partyName
// @Summary      Update a party's GSN entries
// @Description  Applies a whitelisted partial update to every entry for the party
// @Tags         intake
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        partyName  path      string                  true  "Party name"
// @Param        payload    body      map[string]interface{}  true  "Fields to update"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /gsn/upload-data/update-by-party/{partyName} [put]
func (h *IntakeHandler) UpdateByParty(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid request payload"))
		return
	}

	modified, err := h.intakeService.UpdateGsnByParty(c.Request.Context(), c.Param("partyName"), updates)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"modifiedCount": modified})
}
