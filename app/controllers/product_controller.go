package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/bind"
	"github.com/storelane/storelane/pkg/response"
	"github.com/storelane/storelane/pkg/storage"
	"github.com/storelane/storelane/pkg/validate"
)

const maxImageBytes = 8 << 20 // 8 MB

// ProductController exposes the catalogue endpoints. Reads are public;
// create/update/delete and image upload are mounted behind the admin gate.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func (c *ProductController) GetAll(w http.ResponseWriter, r *http.Request) {
	page, okPage := intQuery(r, "page", 1)
	limit, okLimit := intQuery(r, "limit", 20)
	if !okPage || !okLimit {
		response.Error(w, http.StatusBadRequest, "page and limit must be integers")
		return
	}

	products, pagination, err := c.catalog.AllProducts(page, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *ProductController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := c.catalog.ProductByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) GetByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := uintParam(r, "categoryId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	products, err := c.catalog.ProductsByCategory(categoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, products)
}

func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		response.Error(w, http.StatusBadRequest, "keyword is required")
		return
	}

	products, err := c.catalog.SearchProducts(keyword)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, products)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := c.bindInput(w, r)
	if !ok {
		return
	}

	product, err := c.catalog.CreateProduct(input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, okID := uintParam(r, "id")
	if !okID {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	input, ok := c.bindInput(w, r)
	if !ok {
		return
	}

	product, err := c.catalog.UpdateProduct(id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := c.catalog.DeleteProduct(id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a multipart "image" file on the configured disk and
// records its public URL on the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.Error(w, http.StatusUnprocessableEntity, "unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		respondError(w, r, err)
		return
	}

	product, err := c.catalog.SetProductImage(id, storage.URL(path))
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) bindInput(w http.ResponseWriter, r *http.Request) (services.ProductInput, bool) {
	var input services.ProductInput
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
