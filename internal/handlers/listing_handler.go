package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thedirecttree/directory-gateway/internal/services"
)

// ListingHandler serves the public browse views
type ListingHandler struct {
	listings   *services.ListingService
	businesses *services.BusinessService
	logger     *logrus.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *services.ListingService, businesses *services.BusinessService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{
		listings:   listings,
		businesses: businesses,
		logger:     logger,
	}
}

// Home handles GET /
func (h *ListingHandler) Home(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.listings.Home(c.Request.Context(), vs.API)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load the home page")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Businesses handles GET /businesses?island=&category=&q=
//
// A failed fetch still answers 200: the body carries the previous list and
// the error text, the same way the page keeps showing it.
func (h *ListingHandler) Businesses(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.listings.Businesses(c.Request.Context(), vs, c.Request.URL.Query())
	h.logListError(c, "businesses", err)
	c.JSON(http.StatusOK, view)
}

// BusinessDetail handles GET /business/:id
func (h *ListingHandler) BusinessDetail(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.businesses.Detail(c.Request.Context(), vs.API, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Business not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Apartments handles GET /apartments
func (h *ListingHandler) Apartments(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.listings.Apartments(c.Request.Context(), vs, c.Request.URL.Query())
	h.logListError(c, "apartments", err)
	c.JSON(http.StatusOK, view)
}

// Events handles GET /events
func (h *ListingHandler) Events(c *gin.Context) {
	vs, ok := viewState(c, h.logger)
	if !ok {
		return
	}

	view, err := h.listings.Events(c.Request.Context(), vs, c.Request.URL.Query())
	h.logListError(c, "events", err)
	c.JSON(http.StatusOK, view)
}

func (h *ListingHandler) logListError(c *gin.Context, list string, err error) {
	if err == nil || errors.Is(err, services.ErrSuperseded) {
		return
	}
	h.logger.WithFields(logrus.Fields{
		"list":  list,
		"query": c.Request.URL.RawQuery,
	}).WithError(err).Warn("Serving stale list after fetch failure")
}
