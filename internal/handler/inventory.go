package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
	"github.com/dukerupert/csemotors/internal/view"
)

const managementPath = "/inv/"

var vehicleFields = []string{
	"classification_id", "inv_make", "inv_model", "inv_description", "inv_image",
	"inv_thumbnail", "inv_price", "inv_year", "inv_miles", "inv_color",
}

type InventoryHandler struct {
	*Base
}

func NewInventoryHandler(base *Base) *InventoryHandler {
	return &InventoryHandler{Base: base}
}

func (h *InventoryHandler) ByClassification(w http.ResponseWriter, r *http.Request) error {
	id, err := parseIDParam(r, "classification_id")
	if err != nil {
		return NotFound()
	}
	c, err := h.inventory.GetClassification(r.Context(), id)
	if err != nil {
		return err
	}
	if c == nil {
		return NotFound()
	}
	vehicles, err := h.inventory.ListByClassification(r.Context(), id)
	if err != nil {
		return err
	}
	data := map[string]any{"Grid": view.ClassificationGrid(vehicles)}
	return h.render(w, r, http.StatusOK, "inventory/classification", c.Name+" Vehicles", data)
}

func (h *InventoryHandler) Detail(w http.ResponseWriter, r *http.Request) error {
	id, err := parseIDParam(r, "inv_id")
	if err != nil {
		return NotFound()
	}
	v, err := h.inventory.GetVehicle(r.Context(), id)
	if err != nil {
		return err
	}
	if v == nil {
		return NotFound()
	}
	data := map[string]any{"Listing": view.ItemListing(v), "Vehicle": v}
	return h.render(w, r, http.StatusOK, "inventory/detail", fmt.Sprintf("%s %s %s", v.Year, v.Make, v.Model), data)
}

func (h *InventoryHandler) Management(w http.ResponseWriter, r *http.Request) error {
	return h.renderManagement(w, r, http.StatusOK, map[string]string{})
}

func (h *InventoryHandler) renderManagement(w http.ResponseWriter, r *http.Request, status int, form map[string]string, errs ...string) error {
	classifications, err := h.inventory.ListClassifications(r.Context())
	if err != nil {
		return err
	}
	selected, _ := strconv.ParseInt(form["classification_id"], 10, 64)
	data := map[string]any{
		"Form":               form,
		"ClassificationList": view.ClassificationList(classifications, selected),
	}
	return h.render(w, r, status, "inventory/management", "Vehicle Management", data, errs...)
}

func (h *InventoryHandler) AddClassification(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimSpace(r.FormValue("classification_name"))
	form := map[string]string{"classification_name": name}

	var v validator
	v.check(classificationNamePattern.MatchString(name), "Classification name may contain only letters and numbers.")
	if !v.valid() {
		return h.renderManagement(w, r, http.StatusBadRequest, form, v.errs...)
	}

	if _, err := h.inventory.AddClassification(r.Context(), name); err != nil {
		h.logger.Error("add classification", "error", err, "name", name)
		session.FromContext(r.Context()).AddFlash(session.KindNotice, "Sorry, adding the classification failed.")
		return h.renderManagement(w, r, http.StatusInternalServerError, form)
	}
	return redirect(w, r, managementPath, session.KindSuccess, fmt.Sprintf("The %s classification was added.", name))
}

func (h *InventoryHandler) AddVehicle(w http.ResponseWriter, r *http.Request) error {
	form := make(map[string]string, len(vehicleFields))
	for _, f := range vehicleFields {
		form[f] = strings.TrimSpace(r.FormValue(f))
	}

	in := store.VehicleInput{
		Make:        form["inv_make"],
		Model:       form["inv_model"],
		Year:        form["inv_year"],
		Description: form["inv_description"],
		Image:       form["inv_image"],
		Thumbnail:   form["inv_thumbnail"],
		Color:       form["inv_color"],
	}

	var v validator
	classificationID, err := strconv.ParseInt(form["classification_id"], 10, 64)
	v.check(err == nil, "Please choose a classification.")
	in.ClassificationID = classificationID
	v.check(len(in.Make) >= 3, "Make must be at least 3 characters.")
	v.check(len(in.Model) >= 3, "Model must be at least 3 characters.")
	v.required(in.Description, "Please provide a description.")
	v.required(in.Image, "Please provide an image path.")
	v.required(in.Thumbnail, "Please provide a thumbnail path.")
	price, err := strconv.ParseFloat(form["inv_price"], 64)
	v.check(err == nil && price >= 0, "Price must be a non-negative number.")
	in.Price = price
	year, err := strconv.Atoi(in.Year)
	v.check(err == nil && len(in.Year) == 4 && year >= 1900, "Year must be a 4-digit year.")
	miles, err := strconv.ParseInt(form["inv_miles"], 10, 64)
	v.check(err == nil && miles >= 0, "Miles must be a whole non-negative number.")
	in.Miles = miles
	v.required(in.Color, "Please provide a color.")

	if v.valid() {
		c, err := h.inventory.GetClassification(r.Context(), in.ClassificationID)
		if err != nil {
			return err
		}
		v.check(c != nil, "Please choose a classification.")
	}
	if !v.valid() {
		return h.renderManagement(w, r, http.StatusBadRequest, form, v.errs...)
	}

	vehicle, err := h.inventory.AddVehicle(r.Context(), in)
	if err != nil {
		h.logger.Error("add vehicle", "error", err)
		session.FromContext(r.Context()).AddFlash(session.KindNotice, "Sorry, adding the vehicle failed.")
		return h.renderManagement(w, r, http.StatusInternalServerError, form)
	}
	return redirect(w, r, managementPath, session.KindSuccess, vehicleAddedMessage(vehicle))
}

func vehicleAddedMessage(v *model.Vehicle) string {
	return fmt.Sprintf("The %s %s %s was added.", v.Year, v.Make, v.Model)
}
