package controllers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services/container"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

// InterfaceResourceController defines the CRUD handlers shared by every collection
type InterfaceResourceController interface {
	List()
	Get()
	Create()
	Update()
	Delete()
}

// ResourceController handles the requests of one REST collection
type ResourceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Resource  string
}

// NewResourceController creates a controller for the named collection
func NewResourceController(ctx *gin.Context, container *container.ServiceContainer, resource string) *ResourceController {
	return &ResourceController{
		Ctx:       ctx,
		Container: container,
		Resource:  resource,
	}
}

// HandleResourceFunc returns the gin handler for one CRUD method of a collection
func HandleResourceFunc(container *container.ServiceContainer, resource, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewResourceController(ctx, container, resource)

		switch method {
		case "list":
			controller.List()
		case "get":
			controller.Get()
		case "create":
			controller.Create()
		case "update":
			controller.Update()
		case "delete":
			controller.Delete()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method")
		}
	}
}

func (c *ResourceController) service() (services.InterfaceResourceService, bool) {
	svc, ok := c.Container.Resource(c.Resource)
	if !ok {
		response.FailWithMessage(c.Ctx, code.ErrNotFound, "unknown collection "+c.Resource)
	}
	return svc, ok
}

func (c *ResourceController) id() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ParamError(c.Ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// 1. List returns every record of the collection
// @Summary List records
// @Tags Resources
// @Produce json
// @Param resource path string true "collection name"
// @Success 200 {array} object
// @Failure 500 {object} response.ErrorResponse
// @Router /{resource} [get]
func (c *ResourceController) List() {
	svc, ok := c.service()
	if !ok {
		return
	}
	records, err := svc.List(c.Ctx.Request.Context())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, records)
}

// 2. Get returns one record
// @Summary Get record
// @Tags Resources
// @Produce json
// @Param id path int true "record id"
// @Success 200 {object} object
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{resource}/{id} [get]
func (c *ResourceController) Get() {
	svc, ok := c.service()
	if !ok {
		return
	}
	id, ok := c.id()
	if !ok {
		return
	}
	record, err := svc.Get(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, record)
}

// 3. Create inserts a record from the JSON body
// @Summary Create record
// @Tags Resources
// @Accept json
// @Produce json
// @Success 201 {object} object
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /{resource} [post]
func (c *ResourceController) Create() {
	svc, ok := c.service()
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Ctx.Request.Body)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "could not read request body")
		return
	}
	record, err := svc.Create(c.Ctx.Request.Context(), body)
	if err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, record)
}

// 4. Update merges the JSON body onto a stored record
// @Summary Update record
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path int true "record id"
// @Success 200 {object} object
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /{resource}/{id} [put]
func (c *ResourceController) Update() {
	svc, ok := c.service()
	if !ok {
		return
	}
	id, ok := c.id()
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Ctx.Request.Body)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "could not read request body")
		return
	}
	record, err := svc.Update(c.Ctx.Request.Context(), id, body)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, record)
}

// 5. Delete removes a record
// @Summary Delete record
// @Tags Resources
// @Produce json
// @Param id path int true "record id"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /{resource}/{id} [delete]
func (c *ResourceController) Delete() {
	svc, ok := c.service()
	if !ok {
		return
	}
	id, ok := c.id()
	if !ok {
		return
	}
	if err := svc.Delete(c.Ctx.Request.Context(), id); err != nil {
		c.fail(err)
		return
	}
	response.Message(c.Ctx, "Record deleted successfully")
}

func (c *ResourceController) fail(err error) {
	errorCode := errorCode(err)
	if errorCode == code.ErrDatabase {
		c.Container.Logger().Error("request failed",
			zap.String("resource", c.Resource),
			zap.String("path", c.Ctx.FullPath()),
			zap.Error(err))
	}
	response.FailWithMessage(c.Ctx, errorCode, errorMessage(err))
}

// errorCode maps service errors onto response codes
func errorCode(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return code.ErrValidation
	case errors.Is(err, services.ErrNotFound):
		return code.ErrRecordNotFound
	case errors.Is(err, models.ErrDuplicate):
		return code.ErrRecordAlreadyExist
	case errors.Is(err, models.ErrReferenceNotFound):
		return code.ErrReferenceNotFound
	case errors.Is(err, services.ErrInUse):
		return code.ErrRecordInUse
	case errors.Is(err, services.ErrUnknownEntity):
		return code.ErrUnknownEntity
	case errors.Is(err, services.ErrUnsupportedTemplate):
		return code.ErrReportTemplate
	case errors.Is(err, services.ErrReportFileMissing):
		return code.ErrReportFileMissing
	default:
		return code.ErrDatabase
	}
}

func errorMessage(err error) string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errorCode(err) == code.ErrDatabase {
		return code.GetMessage(code.ErrDatabase)
	}
	return err.Error()
}
