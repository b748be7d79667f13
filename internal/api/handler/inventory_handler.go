package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// InventoryHandler serves the public browse pages and the staff-only
// inventory management pages.
type InventoryHandler struct {
	base
	reviews ports.ReviewService
}

func NewInventoryHandler(inventory ports.InventoryService, reviews ports.ReviewService) *InventoryHandler {
	return &InventoryHandler{base: base{inventory: inventory}, reviews: reviews}
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,alpha"`
}

type vehicleForm struct {
	ClassificationID int64   `form:"classification_id" validate:"required,gt=0"`
	Make             string  `form:"inv_make" validate:"required"`
	Model            string  `form:"inv_model" validate:"required"`
	Year             int     `form:"inv_year" validate:"required,gte=1886"`
	Description      string  `form:"inv_description" validate:"required"`
	Image            string  `form:"inv_image"`
	Thumbnail        string  `form:"inv_thumbnail"`
	Price            float64 `form:"inv_price" validate:"gte=0"`
	Miles            int64   `form:"inv_miles" validate:"gte=0"`
	Color            string  `form:"inv_color" validate:"required"`
}

func (f vehicleForm) sticky() map[string]string {
	return map[string]string{
		"classification_id": fmt.Sprintf("%d", f.ClassificationID),
		"inv_make":          f.Make,
		"inv_model":         f.Model,
		"inv_year":          fmt.Sprintf("%d", f.Year),
		"inv_description":   f.Description,
		"inv_image":         f.Image,
		"inv_thumbnail":     f.Thumbnail,
		"inv_price":         fmt.Sprintf("%g", f.Price),
		"inv_miles":         fmt.Sprintf("%d", f.Miles),
		"inv_color":         f.Color,
	}
}

func (f vehicleForm) vehicle(id int64) domain.Vehicle {
	return domain.Vehicle{
		ID:               id,
		ClassificationID: f.ClassificationID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.Price,
		Miles:            f.Miles,
		Color:            f.Color,
	}
}

// Home renders the landing page.
func (h *InventoryHandler) Home(c echo.Context) error {
	p, err := h.page(c, "Home")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "home", p)
}

// ByClassification renders the vehicle grid for one classification.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, err := parseID(c, "classificationID")
	if err != nil {
		return err
	}

	classification, err := h.inventory.ClassificationByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	vehicles, err := h.inventory.VehiclesByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}

	p, err := h.page(c, classification.Name+" Vehicles")
	if err != nil {
		return err
	}
	p.Data = struct {
		Classification domain.Classification
		Vehicles       []domain.Vehicle
	}{*classification, vehicles}
	return c.Render(http.StatusOK, "classification", p)
}

// Detail renders one vehicle with its reviews.
func (h *InventoryHandler) Detail(c echo.Context) error {
	id, err := parseID(c, "vehicleID")
	if err != nil {
		return err
	}

	vehicle, err := h.inventory.VehicleByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ByVehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}

	p, err := h.page(c, fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model))
	if err != nil {
		return err
	}
	p.Data = struct {
		Vehicle domain.Vehicle
		Reviews []domain.Review
	}{*vehicle, reviews}
	return c.Render(http.StatusOK, "vehicle", p)
}

// Manage renders the staff inventory management page.
func (h *InventoryHandler) Manage(c echo.Context) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return err
	}
	p, err := h.page(c, "Inventory Management")
	if err != nil {
		return err
	}
	p.Data = struct{ Classifications []domain.Classification }{classifications}
	return c.Render(http.StatusOK, "inventory_manage", p)
}

// ShowAddClassification renders the new-classification form.
func (h *InventoryHandler) ShowAddClassification(c echo.Context) error {
	p, err := h.page(c, "Add New Classification")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "classification_new", p)
}

// AddClassification creates a classification; the nav picks it up on the
// next render.
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form classificationForm
	if err := c.Bind(&form); err != nil {
		return h.renderAddClassification(c, form, nil)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderAddClassification(c, form, fields)
	}

	created, err := h.inventory.AddClassification(c.Request().Context(), form.Name)
	switch {
	case errors.Is(err, domain.ErrInvalidClassification):
		return h.renderAddClassification(c, form, map[string]string{
			"classification_name": "Classification name must contain letters only.",
		})
	case errors.Is(err, domain.ErrClassificationTaken):
		return h.renderAddClassification(c, form, map[string]string{
			"classification_name": "That classification already exists.",
		})
	case err != nil:
		return err
	}

	flash(c, domain.NoticeInfo, "The "+created.Name+" classification was added.")
	return c.Redirect(http.StatusSeeOther, "/inv")
}

func (h *InventoryHandler) renderAddClassification(c echo.Context, form classificationForm, fields map[string]string) error {
	p, err := h.page(c, "Add New Classification")
	if err != nil {
		return err
	}
	p.Form = map[string]string{"classification_name": form.Name}
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "classification_new", p)
}

// vehicleFormPage fills the shared add/edit template.
type vehicleFormPage struct {
	Classifications []domain.Classification
	Action          string
	Submit          string
	Editing         bool
	VehicleID       int64
}

func (h *InventoryHandler) vehicleFormData(c echo.Context, title, action, submit string, vehicleID int64) (view.Page, error) {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return view.Page{}, err
	}
	page, err := h.page(c, title)
	if err != nil {
		return view.Page{}, err
	}
	page.Data = vehicleFormPage{
		Classifications: classifications,
		Action:          action,
		Submit:          submit,
		Editing:         vehicleID > 0,
		VehicleID:       vehicleID,
	}
	return page, nil
}

// ShowAddVehicle renders the empty vehicle form.
func (h *InventoryHandler) ShowAddVehicle(c echo.Context) error {
	p, err := h.vehicleFormData(c, "Add New Vehicle", "/inv/new", "Add vehicle", 0)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "vehicle_form", p)
}

// AddVehicle validates and stores a new inventory item.
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return h.renderVehicleForm(c, form, nil, 0)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderVehicleForm(c, form, fields, 0)
	}

	created, err := h.inventory.AddVehicle(c.Request().Context(), form.vehicle(0))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVehicle) || errors.Is(err, domain.ErrClassificationNotFound) {
			return h.renderVehicleForm(c, form, map[string]string{
				"classification_id": "Please choose a valid classification and check the vehicle details.",
			}, 0)
		}
		return err
	}

	metrics.VehiclesTotal.WithLabelValues("created").Inc()
	flash(c, domain.NoticeInfo, "The "+created.Make+" "+created.Model+" was added to inventory.")
	return c.Redirect(http.StatusSeeOther, "/inv")
}

// ShowEditVehicle renders the vehicle form pre-filled for editing.
func (h *InventoryHandler) ShowEditVehicle(c echo.Context) error {
	id, err := parseID(c, "vehicleID")
	if err != nil {
		return err
	}
	vehicle, err := h.inventory.VehicleByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	p, err := h.vehicleFormData(c, "Edit "+vehicle.Make+" "+vehicle.Model,
		fmt.Sprintf("/inv/edit/%d", id), "Save changes", id)
	if err != nil {
		return err
	}
	form := vehicleForm{
		ClassificationID: vehicle.ClassificationID,
		Make:             vehicle.Make,
		Model:            vehicle.Model,
		Year:             vehicle.Year,
		Description:      vehicle.Description,
		Image:            vehicle.Image,
		Thumbnail:        vehicle.Thumbnail,
		Price:            vehicle.Price,
		Miles:            vehicle.Miles,
		Color:            vehicle.Color,
	}
	p.Form = form.sticky()
	return c.Render(http.StatusOK, "vehicle_form", p)
}

// EditVehicle validates and persists changes to an inventory item.
func (h *InventoryHandler) EditVehicle(c echo.Context) error {
	id, err := parseID(c, "vehicleID")
	if err != nil {
		return err
	}

	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return h.renderVehicleForm(c, form, nil, id)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderVehicleForm(c, form, fields, id)
	}

	updated, err := h.inventory.UpdateVehicle(c.Request().Context(), form.vehicle(id))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVehicle) || errors.Is(err, domain.ErrClassificationNotFound) {
			return h.renderVehicleForm(c, form, map[string]string{
				"classification_id": "Please choose a valid classification and check the vehicle details.",
			}, id)
		}
		return err
	}

	metrics.VehiclesTotal.WithLabelValues("updated").Inc()
	flash(c, domain.NoticeInfo, "The "+updated.Make+" "+updated.Model+" was updated.")
	return c.Redirect(http.StatusSeeOther, "/inv")
}

// DeleteVehicle removes an inventory item.
func (h *InventoryHandler) DeleteVehicle(c echo.Context) error {
	id, err := parseID(c, "vehicleID")
	if err != nil {
		return err
	}
	if err := h.inventory.DeleteVehicle(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.VehiclesTotal.WithLabelValues("deleted").Inc()
	flash(c, domain.NoticeInfo, "The vehicle was removed from inventory.")
	return c.Redirect(http.StatusSeeOther, "/inv")
}

func (h *InventoryHandler) renderVehicleForm(c echo.Context, form vehicleForm, fields map[string]string, vehicleID int64) error {
	title, action, submit := "Add New Vehicle", "/inv/new", "Add vehicle"
	if vehicleID > 0 {
		title, action, submit = "Edit Vehicle", fmt.Sprintf("/inv/edit/%d", vehicleID), "Save changes"
	}
	p, err := h.vehicleFormData(c, title, action, submit, vehicleID)
	if err != nil {
		return err
	}
	p.Form = form.sticky()
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "vehicle_form", p)
}
