package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// ReviewHandler accepts review submissions on vehicle detail pages. Reads
// happen on the detail page itself.
type ReviewHandler struct {
	reviews ports.ReviewService
}

func NewReviewHandler(reviews ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type reviewForm struct {
	Text string `form:"review_text" validate:"required,min=3,max=500"`
}

// Create stores a review for the authenticated visitor and returns to the
// detail page, which shows it at the top of the list.
func (h *ReviewHandler) Create(c echo.Context) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}

	vehicleID, err := parseID(c, "vehicleID")
	if err != nil {
		return err
	}
	detailPath := fmt.Sprintf("/inv/detail/%d", vehicleID)

	var form reviewForm
	if err := c.Bind(&form); err != nil {
		flash(c, domain.NoticeError, "Your review could not be read. Please try again.")
		return c.Redirect(http.StatusSeeOther, detailPath)
	}
	if err := c.Validate(&form); err != nil {
		flash(c, domain.NoticeError, "Reviews must be between 3 and 500 characters.")
		return c.Redirect(http.StatusSeeOther, detailPath)
	}

	_, err = h.reviews.Submit(c.Request().Context(), vehicleID, identity.ID, form.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReview) {
			flash(c, domain.NoticeError, "Reviews must be between 3 and 500 characters.")
			return c.Redirect(http.StatusSeeOther, detailPath)
		}
		return err
	}

	metrics.ReviewsSubmittedTotal.Inc()
	flash(c, domain.NoticeInfo, "Thanks for your review!")
	return c.Redirect(http.StatusSeeOther, detailPath)
}
