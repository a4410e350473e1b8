package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/domain/services"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services/container"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

const csvContentType = "text/csv; charset=utf-8"

// InterfaceTransferController defines the CSV import/export handlers
type InterfaceTransferController interface {
	Template()
	Import()
	Export()
}

// TransferController handles /api/import-export
type TransferController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTransferController creates a transfer controller
func NewTransferController(ctx *gin.Context, container *container.ServiceContainer) *TransferController {
	return &TransferController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleTransferFunc returns the gin handler for one transfer method
func HandleTransferFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTransferController(ctx, container)

		switch method {
		case "template":
			controller.Template()
		case "import":
			controller.Import()
		case "export":
			controller.Export()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method")
		}
	}
}

func (c *TransferController) service() services.InterfaceTransferService {
	return c.Container.GetService("transfer").(services.InterfaceTransferService)
}

func (c *TransferController) attachment(name string, data []byte) {
	c.Ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Ctx.Data(http.StatusOK, csvContentType, data)
}

// 1. Template downloads the header-only import template
// @Summary Import template
// @Tags Transfer
// @Produce text/csv
// @Param entity path string true "collection name"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse
// @Router /import-export/{entity}/template [get]
func (c *TransferController) Template() {
	entity := c.Ctx.Param("entity")
	data, err := c.service().Template(entity)
	if err != nil {
		c.fail(err, code.ErrExportFailed)
		return
	}
	c.attachment(entity+"_import_template.csv", data)
}

// 2. Import creates records from an uploaded CSV file
// @Summary Import CSV
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param entity path string true "collection name"
// @Param file formData file true "CSV file"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} response.ErrorResponse
// @Router /import-export/{entity}/import [post]
func (c *TransferController) Import() {
	entity := c.Ctx.Param("entity")
	header, err := c.Ctx.FormFile("file")
	if err != nil || header.Filename == "" {
		response.Fail(c.Ctx, code.ErrNoFile)
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		response.Fail(c.Ctx, code.ErrNotCSV)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrImportFailed, "could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := c.service().Import(c.Ctx.Request.Context(), entity, file)
	if err != nil {
		c.fail(err, code.ErrImportFailed)
		return
	}
	response.Success(c.Ctx, result)
}

// 3. Export downloads every record as CSV
// @Summary Export CSV
// @Tags Transfer
// @Produce text/csv
// @Param entity path string true "collection name"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse
// @Router /import-export/{entity}/export [get]
func (c *TransferController) Export() {
	entity := c.Ctx.Param("entity")
	data, err := c.service().Export(c.Ctx.Request.Context(), entity)
	if err != nil {
		c.fail(err, code.ErrExportFailed)
		return
	}
	c.attachment(fmt.Sprintf("%s_export_%s.csv", entity, time.Now().Format("2006-01-02")), data)
}

func (c *TransferController) fail(err error, fallback int) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FailWithMessage(c.Ctx, code.ErrValidation, verr.Message)
	case errors.Is(err, services.ErrUnknownEntity):
		response.FailWithMessage(c.Ctx, code.ErrUnknownEntity, err.Error())
	default:
		c.Container.Logger().Error("transfer failed",
			zap.String("entity", c.Ctx.Param("entity")),
			zap.Error(err))
		response.Fail(c.Ctx, fallback)
	}
}
