package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const SuccessMessage = "Your message has been sent successfully! I'll get back to you within 24 hours."

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact route behind the given limiter
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, limiter gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	api.POST("/contact", limiter, handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates the submission, emails the site owner and sends the visitor an acknowledgment.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.RateLimitResponse
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	// validation happens in the usecase, binding only decodes
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	receipt, err := h.contactUC.Submit(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, SuccessMessage, receipt.Timestamp)
}
