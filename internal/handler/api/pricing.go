package api

import (
	"net/http"

	reqdto "catotel/internal/handler/dto/request"
	resdto "catotel/internal/handler/dto/response"
	"catotel/internal/handler/httperr"
	"catotel/internal/handler/middleware"
	"catotel/internal/pkg/errs"
	"catotel/internal/usecase/commands"
	"catotel/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	commands commands.PricingConfigCommands
	queries  queries.PricingQueries
}

func NewPricingHandler(cmds commands.PricingConfigCommands, qs queries.PricingQueries) *PricingHandler {
	return &PricingHandler{commands: cmds, queries: qs}
}

// @Summary Price quote
// @Description Compute an itemized price preview without creating a reservation
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /quotes [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_DATE_RANGE", "Dates must be formatted YYYY-MM-DD", nil)
		return
	}

	view, err := h.queries.Quote(c.Request.Context(), params)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}

// @Summary Get pricing configuration
// @Tags pricing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.PricingConfigResponse
// @Router /admin/pricing-config [get]
func (h *PricingHandler) GetConfig(c *gin.Context) {
	view, err := h.queries.ActiveConfig(c.Request.Context())
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPricingConfigView(view))
}

// @Summary Update pricing configuration
// @Description Replace the active pricing snapshot using optimistic versioning
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdatePricingConfigRequest true "New configuration with expected version"
// @Success 200 {object} resdto.PricingConfigResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/pricing-config [put]
func (h *PricingHandler) UpdateConfig(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"),
			"INTERNAL", "Internal server error", nil)
		return
	}

	var req reqdto.UpdatePricingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			"INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	if _, err := h.commands.Update(c.Request.Context(), req.ToParams(), actor); err != nil {
		respondUseCaseError(c, err)
		return
	}

	view, err := h.queries.ActiveConfig(c.Request.Context())
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPricingConfigView(view))
}
