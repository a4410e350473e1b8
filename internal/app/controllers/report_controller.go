package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services/container"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

// InterfaceReportController defines the report handlers
type InterfaceReportController interface {
	Templates()
	QuickGenerate()
	Generations()
	Download()
	Dashboard()
}

// ReportController handles /api/reports
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController creates a report controller
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// GenerateResponse is returned by quick-generate
type GenerateResponse struct {
	Message     string                   `json:"message"`
	Generation  *models.ReportGeneration `json:"generation"`
	DownloadURL string                   `json:"download_url"`
}

// HandleReportFunc returns the gin handler for one report method
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "templates":
			controller.Templates()
		case "quickGenerate":
			controller.QuickGenerate()
		case "generations":
			controller.Generations()
		case "download":
			controller.Download()
		case "dashboard":
			controller.Dashboard()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method")
		}
	}
}

func (c *ReportController) service() services.InterfaceReportService {
	return c.Container.GetService("report").(services.InterfaceReportService)
}

// 1. Templates lists the report templates
// @Summary Report templates
// @Tags Reports
// @Produce json
// @Success 200 {array} services.ReportTemplate
// @Router /reports/templates [get]
func (c *ReportController) Templates() {
	response.Success(c.Ctx, c.service().Templates())
}

// 2. QuickGenerate builds a report for the requested period
// @Summary Generate report
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body services.GenerateRequest true "template and period"
// @Success 201 {object} GenerateResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/quick-generate [post]
func (c *ReportController) QuickGenerate() {
	var req services.GenerateRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "template_name is required")
		return
	}
	generation, err := c.service().Generate(c.Ctx.Request.Context(), req)
	if err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, GenerateResponse{
		Message:     "Report generated successfully",
		Generation:  generation,
		DownloadURL: fmt.Sprintf("/api/reports/download/%d", generation.ID),
	})
}

// 3. Generations lists the generation history
// @Summary Report history
// @Tags Reports
// @Produce json
// @Success 200 {array} models.ReportGeneration
// @Router /reports/generations [get]
func (c *ReportController) Generations() {
	generations, err := c.service().Generations(c.Ctx.Request.Context())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, generations)
}

// 4. Download sends a generated workbook
// @Summary Download report
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "generation id"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/download/{id} [get]
func (c *ReportController) Download() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ParamError(c.Ctx, "invalid id")
		return
	}
	generation, err := c.service().Generation(c.Ctx.Request.Context(), uint(id))
	if err != nil {
		c.fail(err)
		return
	}
	c.Ctx.FileAttachment(generation.FilePath, generation.FileName)
}

// 5. Dashboard summarizes the generation history
// @Summary Report dashboard
// @Tags Reports
// @Produce json
// @Success 200 {object} services.ReportDashboard
// @Router /reports/dashboard [get]
func (c *ReportController) Dashboard() {
	dashboard, err := c.service().Dashboard(c.Ctx.Request.Context())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, dashboard)
}

func (c *ReportController) fail(err error) {
	errorCode := errorCode(err)
	switch errorCode {
	case code.ErrRecordNotFound:
		errorCode = code.ErrReportNotFound
	case code.ErrDatabase:
		c.Container.Logger().Error("report request failed", zap.Error(err))
		errorCode = code.ErrReportFailed
	}
	response.FailWithMessage(c.Ctx, errorCode, errorMessageFor(err, errorCode))
}

func errorMessageFor(err error, errorCode int) string {
	if errorCode == code.ErrReportFailed {
		return code.GetMessage(errorCode)
	}
	return errorMessage(err)
}
