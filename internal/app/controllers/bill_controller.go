package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

// BillCategories lists the accepted bill categories
// @Summary Bill categories
// @Tags Bills
// @Produce json
// @Success 200 {array} string
// @Router /bills/categories [get]
func BillCategories(c *gin.Context) {
	response.Success(c, models.BillCategories)
}

// BillFrequencies lists the accepted recurrence frequencies
// @Summary Bill frequencies
// @Tags Bills
// @Produce json
// @Success 200 {array} string
// @Router /bills/frequencies [get]
func BillFrequencies(c *gin.Context) {
	response.Success(c, models.BillFrequencies)
}
