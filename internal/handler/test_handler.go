package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/quizshare-backend/internal/middleware"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/quizshare/quizshare-backend/internal/response"
	"github.com/quizshare/quizshare-backend/internal/service"
	"github.com/quizshare/quizshare-backend/internal/validator"
)

// TestHandler handles test authoring and slug resolution endpoints.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// CreateTest godoc
// POST /tests
// Creates a test owned by the caller. Any authenticated identity may
// author tests; there is no role gate on this route.
func (h *TestHandler) CreateTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, test)
}

// ListTests godoc
// GET /tests
// Returns the caller's own tests.
func (h *TestHandler) ListTests(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	tests, err := h.testService.ListByOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if tests == nil {
		tests = []model.Test{}
	}

	response.Success(c, http.StatusOK, tests)
}

// GetTestBySlug godoc
// GET /tests/:slug
// Resolves a shared test by its public slug. The slug is the sharing
// capability; no ownership check applies.
func (h *TestHandler) GetTestBySlug(c *gin.Context) {
	test, err := h.testService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, test)
}
