package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/cache"
	"github.com/storelane/storelane/pkg/collection"
	"github.com/storelane/storelane/pkg/errs"
	"github.com/storelane/storelane/pkg/response"
)

const (
	categoryCacheKey = "catalog:categories"
	categoryCacheTTL = 10 * time.Minute
)

// CatalogService owns product and category access. Constructed once at
// process start and shared by reference across request handlers.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductInput is the create/update payload. Price arrives as a string so the
// value never round-trips through a float.
type ProductInput struct {
	Name          string `json:"name"          validate:"required,max=255"`
	Description   string `json:"description"   validate:"nullable,max=5000"`
	Price         string `json:"price"         validate:"required,numeric"`
	ImageURL      string `json:"imageUrl"      validate:"nullable,max=512"`
	StockQuantity int    `json:"stockQuantity" validate:"gte=0"`
	CategoryID    uint   `json:"categoryId"    validate:"required"`
}

// AllProducts returns one page of the catalogue.
func (s *CatalogService) AllProducts(page, limit int) ([]ProductView, response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	var products []models.Product
	err := s.db.Preload("Category").
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, response.Pagination{}, err
	}

	views := collection.Map(products, func(p models.Product) ProductView {
		return productView(p, p.Category.Name)
	})
	return views, response.NewPagination(page, limit, total), nil
}

// ProductByID resolves a single product or fails NotFound.
func (s *CatalogService) ProductByID(id uint) (ProductView, error) {
	var product models.Product
	err := s.db.Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductView{}, fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return ProductView{}, err
	}
	return productView(product, product.Category.Name), nil
}

// ProductsByCategory lists the products of one category, failing NotFound if
// the category itself does not exist.
func (s *CatalogService) ProductsByCategory(categoryID uint) ([]ProductView, error) {
	category, err := s.categoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := s.db.Where("category_id = ?", category.ID).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	return collection.Map(products, func(p models.Product) ProductView {
		return productView(p, category.Name)
	}), nil
}

// SearchProducts matches keyword as a substring of name or description.
func (s *CatalogService) SearchProducts(keyword string) ([]ProductView, error) {
	pattern := "%" + keyword + "%"

	var products []models.Product
	err := s.db.Preload("Category").
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return collection.Map(products, func(p models.Product) ProductView {
		return productView(p, p.Category.Name)
	}), nil
}

// CreateProduct inserts a product after resolving its category. A product may
// never reference a category that does not exist.
func (s *CatalogService) CreateProduct(in ProductInput) (ProductView, error) {
	price, category, err := s.resolveInput(in)
	if err != nil {
		return ProductView{}, err
	}

	product := models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         price,
		ImageURL:      in.ImageURL,
		StockQuantity: in.StockQuantity,
		CategoryID:    category.ID,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return ProductView{}, err
	}
	return productView(product, category.Name), nil
}

// UpdateProduct overwrites an existing product from the input.
func (s *CatalogService) UpdateProduct(id uint, in ProductInput) (ProductView, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductView{}, fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return ProductView{}, err
	}

	price, category, err := s.resolveInput(in)
	if err != nil {
		return ProductView{}, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = price
	product.ImageURL = in.ImageURL
	product.StockQuantity = in.StockQuantity
	product.CategoryID = category.ID

	if err := s.db.Save(&product).Error; err != nil {
		return ProductView{}, err
	}
	return productView(product, category.Name), nil
}

// DeleteProduct removes a product or fails NotFound.
func (s *CatalogService) DeleteProduct(id uint) error {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	return s.db.Delete(&product).Error
}

// SetProductImage stores the uploaded image URL on the product.
func (s *CatalogService) SetProductImage(id uint, url string) (ProductView, error) {
	var product models.Product
	err := s.db.Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductView{}, fmt.Errorf("%w: product %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return ProductView{}, err
	}

	product.ImageURL = url
	if err := s.db.Save(&product).Error; err != nil {
		return ProductView{}, err
	}
	return productView(product, product.Category.Name), nil
}

// ─── Categories ──────────────────────────────────────────────────────────────

// AllCategories lists every category. The list is small and changes rarely,
// so it is served from Redis when available. Product and cart state is never
// cached — every operation re-reads current rows.
func (s *CatalogService) AllCategories() ([]CategoryView, error) {
	var views []CategoryView
	if cache.Get(categoryCacheKey, &views) {
		return views, nil
	}

	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}

	views = collection.Map(categories, func(c models.Category) CategoryView {
		return CategoryView{ID: c.ID, Name: c.Name}
	})
	cache.Set(categoryCacheKey, views, categoryCacheTTL)
	return views, nil
}

// CategoryByID resolves one category or fails NotFound.
func (s *CatalogService) CategoryByID(id uint) (CategoryView, error) {
	category, err := s.categoryByID(id)
	if err != nil {
		return CategoryView{}, err
	}
	return CategoryView{ID: category.ID, Name: category.Name}, nil
}

// CreateCategory inserts a category and invalidates the cached list.
func (s *CatalogService) CreateCategory(name string) (CategoryView, error) {
	category := models.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return CategoryView{}, err
	}
	cache.Del(categoryCacheKey)
	return CategoryView{ID: category.ID, Name: category.Name}, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(id uint, name string) (CategoryView, error) {
	category, err := s.categoryByID(id)
	if err != nil {
		return CategoryView{}, err
	}
	category.Name = name
	if err := s.db.Save(&category).Error; err != nil {
		return CategoryView{}, err
	}
	cache.Del(categoryCacheKey)
	return CategoryView{ID: category.ID, Name: category.Name}, nil
}

// DeleteCategory removes an empty category. Categories still referenced by
// products cannot be deleted.
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.categoryByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category %d still has %d products", errs.ErrValidation, id, count)
	}

	// Hard delete: a soft-deleted row would keep the unique name occupied.
	if err := s.db.Unscoped().Delete(&category).Error; err != nil {
		return err
	}
	cache.Del(categoryCacheKey)
	return nil
}

// ─── Internal helpers ────────────────────────────────────────────────────────

func (s *CatalogService) categoryByID(id uint) (models.Category, error) {
	var category models.Category
	err := s.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, fmt.Errorf("%w: category %d", errs.ErrNotFound, id)
	}
	return category, err
}

func (s *CatalogService) resolveInput(in ProductInput) (decimal.Decimal, models.Category, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, models.Category{}, fmt.Errorf("%w: price must be a non-negative decimal", errs.ErrValidation)
	}

	category, err := s.categoryByID(in.CategoryID)
	if err != nil {
		return decimal.Decimal{}, models.Category{}, err
	}
	return price, category, nil
}
