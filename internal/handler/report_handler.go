package handler

import (
	"github.com/Sachinsen7/grin/internal/service"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler sets up the routing dependencies for report endpoints
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/gsn-register.xlsx", h.GsnRegister)
		reports.GET("/grin-register.xlsx", h.GrinRegister)
	}
}

// GsnRegister handles GET /reports/gsn-register.xlsx
// @Summary      Download GSN register
// @Description  Exports every GSN entry with totals and signature states as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /reports/gsn-register.xlsx [get]
func (h *ReportHandler) GsnRegister(c *gin.Context) {
	f, err := h.reportService.GsnRegister(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	writeWorkbook(c, f, "gsn-register.xlsx")
}

// GrinRegister handles GET /reports/grin-register.xlsx
// @Summary      Download GRIN register
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /reports/grin-register.xlsx [get]
func (h *ReportHandler) GrinRegister(c *gin.Context) {
	f, err := h.reportService.GrinRegister(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	writeWorkbook(c, f, "grin-register.xlsx")
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(c.Writer); err != nil {
		// Headers are already on the wire; nothing useful can be sent back.
		logrus.WithError(err).Error("failed to stream workbook")
	}
}
