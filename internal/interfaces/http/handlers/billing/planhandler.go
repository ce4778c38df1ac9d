package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingUsecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/shared/logger"
	"sokofiti/internal/shared/utils"
)

// PlanHandler serves the public plan catalog.
type PlanHandler struct {
	listPlansUC *billingUsecases.ListPlansUseCase
	logger      logger.Interface
}

func NewPlanHandler(listPlansUC *billingUsecases.ListPlansUseCase, log logger.Interface) *PlanHandler {
	return &PlanHandler{
		listPlansUC: listPlansUC,
		logger:      log,
	}
}

// ListPlans handles GET /plans
//
//	@Summary		List subscription plans
//	@Description	Returns active subscription plans and credit packages with formatted prices
//	@Tags			plans
//	@Produce		json
//	@Success		200	{object}	utils.APIResponse{data=usecases.ListPlansResult}
//	@Router			/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	result, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, mapDomainError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
