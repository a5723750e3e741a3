package handler

import (
	"net/http"

	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

// NewSupplierHandler sets up the routing dependencies for supplier endpoints
func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/suppliers", h.ListSuppliers)
	router.POST("/suppliers", h.AddSupplier)
	router.GET("/supplier-details", h.SupplierDetails)
	router.PUT("/supplier/:partyName", h.UpdateSupplier)
	router.DELETE("/supplier/:partyName", h.DeleteSupplier)
}

// ListSuppliers handles GET /suppliers
// @Summary      List suppliers
// @Description  Merged directory of intake-derived parties and dedicated master records
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.SupplierView}
// @Router       /suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	views, err := h.supplierService.ListMerged(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, views)
}

// AddSupplier handles POST /suppliers
// @Summary      Add supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AddSupplierRequest  true  "Supplier Payload"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Failure      400      {object}  response.Response
// @Router       /suppliers [post]
func (h *SupplierHandler) AddSupplier(c *gin.Context) {
	var req service.AddSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid request payload"))
		return
	}

	supplier, err := h.supplierService.Add(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, supplier)
}

// SupplierDetails handles GET /supplier-details?partyName=
// @Summary      Supplier receipt numbers
// @Description  Lists the gsnNo/grinNo pairs recorded for a party
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        partyName  query     string  true  "Party name"
// @Success      200        {object}  response.Response{data=[]service.PartyRef}
// @Failure      400        {object}  response.Response
// @Router       /supplier-details [get]
func (h *SupplierHandler) SupplierDetails(c *gin.Context) {
	refs, err := h.supplierService.PartyDetails(c.Request.Context(), c.Query("partyName"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, refs)
}

// UpdateSupplier handles PUT /supplier/:partyName
// @Summary      Update supplier
// @Description  Updates the master record, promoting an intake-derived party to a dedicated record when needed
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        partyName  path      string                         true  "Party name"
// @Param        payload    body      service.UpdateSupplierRequest  true  "Fields to update"
// @Success      200        {object}  response.Response{data=service.UpdateSupplierResult}
// @Failure      404        {object}  response.Response
// @Router       /supplier/{partyName} [put]
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperror.BadRequest("Invalid request payload"))
		return
	}

	result, err := h.supplierService.Update(c.Request.Context(), c.Param("partyName"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteSupplier handles DELETE /supplier/:partyName
// @Summary      Delete supplier
// @Description  Soft-deletes the party's master record
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        partyName  path      string  true  "Party name"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /supplier/{partyName} [delete]
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.Delete(c.Request.Context(), c.Param("partyName")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
