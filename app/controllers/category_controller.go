package controllers

import (
	"net/http"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/bind"
	"github.com/storelane/storelane/pkg/response"
	"github.com/storelane/storelane/pkg/validate"
)

type categoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryController manages the category taxonomy. Reads are public,
// writes are admin only.
type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (c *CategoryController) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.AllCategories()
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, categories)
}

func (c *CategoryController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := c.catalog.CategoryByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := c.bindInput(w, r)
	if !ok {
		return
	}

	category, err := c.catalog.CreateCategory(input.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, okID := uintParam(r, "id")
	if !okID {
		response.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	input, ok := c.bindInput(w, r)
	if !ok {
		return
	}

	category, err := c.catalog.UpdateCategory(id, input.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := c.catalog.DeleteCategory(id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CategoryController) bindInput(w http.ResponseWriter, r *http.Request) (categoryInput, bool) {
	var input categoryInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return input, false
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return input, false
	}
	return input, true
}
