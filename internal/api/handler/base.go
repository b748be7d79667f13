package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const loginPath = "/account/login"

// base carries what every page render needs: the classification list for
// the nav and access to the flash queue. Handlers embed it.
type base struct {
	inventory ports.InventoryService
}

// page assembles the layout data for one render: nav, visitor, and the
// popped flash queue. A nav failure is a store failure and bubbles to the
// central error handler.
func (b base) page(c echo.Context, title string) (view.Page, error) {
	nav, err := b.inventory.Classifications(c.Request().Context())
	if err != nil {
		return view.Page{}, err
	}
	p := view.Page{
		Title:   title,
		Nav:     nav,
		Visitor: middleware.Visitor(c),
	}
	if state := middleware.SessionState(c); state != nil {
		p.Notices = state.PopNotices(c)
	}
	return p, nil
}

// flash queues a one-shot notice for the next rendered page.
func flash(c echo.Context, kind domain.NoticeKind, message string) {
	if state := middleware.SessionState(c); state != nil {
		state.Flash(c, kind, message)
	}
}
