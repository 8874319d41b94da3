package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmesh/backend/internal/services"
	"github.com/tripmesh/backend/pkg/response"
)

type CountryHandler struct {
	holidayService *services.HolidayService
}

func NewCountryHandler(holidayService *services.HolidayService) *CountryHandler {
	return &CountryHandler{holidayService: holidayService}
}

// List returns the country codes available for holiday annotation
// GET /api/countries
func (h *CountryHandler) List(c *gin.Context) {
	response.Success(c, h.holidayService.SupportedCountries())
}
