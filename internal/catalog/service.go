package catalog

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/rafaapcode/waitery-backend-sub000/internal/apperr"
	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/pagination"
	"github.com/rafaapcode/waitery-backend-sub000/internal/scope"
)

// ProductPage is the page wrapper returned by the product listing.
type ProductPage struct {
	Items   []models.Product `json:"items"`
	HasNext bool             `json:"has_next"`
}

// CreateProductRequest carries the fields of a new product.
type CreateProductRequest struct {
	CategoryID     string  `json:"category_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url"`
	Price          float64 `json:"price"`
	DiscountPrice  float64 `json:"discount_price"`
	DiscountActive bool    `json:"discount_active"`
}

// Service implements the conventional catalog CRUD. It carries no order
// semantics; the order core only depends on the repositories.
type Service struct {
	products    ProductRepositoryInterface
	categories  CategoryRepositoryInterface
	ingredients IngredientRepositoryInterface
	scope       *scope.Checker
}

// NewService creates a catalog service.
func NewService(
	products ProductRepositoryInterface,
	categories CategoryRepositoryInterface,
	ingredients IngredientRepositoryInterface,
	checker *scope.Checker,
) *Service {
	return &Service{
		products:    products,
		categories:  categories,
		ingredients: ingredients,
		scope:       checker,
	}
}

// GetOrganization returns the organization or a not-found error.
func (s *Service) GetOrganization(orgID string) (*models.Organization, error) {
	return s.scope.Organization(orgID)
}

// CreateProduct creates a product inside the organization's catalog.
func (s *Service) CreateProduct(orgID string, req CreateProductRequest) (*models.Product, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(orgID, req.CategoryID); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, apperr.Validation("category %s not found in organization catalog", req.CategoryID)
		}
		return nil, err
	}

	product := &models.Product{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		DiscountActive: req.DiscountActive,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := models.ValidateProduct(product); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	log.Printf("created product %s in organization %s", product.ID, orgID)
	return product, nil
}

// GetProduct fetches one product of the organization.
func (s *Service) GetProduct(orgID, id string) (*models.Product, error) {
	product, err := s.products.GetByID(orgID, id)
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("product %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts returns one page of the organization's catalog.
func (s *Service) ListProducts(orgID string, page int) (*ProductPage, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	params := pagination.New(page)
	products, err := s.products.ListByOrganization(orgID, params)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Items:   products[:params.Cut(len(products))],
		HasNext: params.HasNext(len(products)),
	}, nil
}

// UpdateProduct overwrites the mutable fields of a product.
func (s *Service) UpdateProduct(orgID, id string, req CreateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(orgID, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != "" && req.CategoryID != product.CategoryID {
		if _, err := s.categories.GetByID(orgID, req.CategoryID); err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return nil, apperr.Validation("category %s not found in organization catalog", req.CategoryID)
			}
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}

	product.Name = req.Name
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.Price = req.Price
	product.DiscountPrice = req.DiscountPrice
	product.DiscountActive = req.DiscountActive
	product.UpdatedAt = time.Now()

	if err := models.ValidateProduct(product); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if err := s.products.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog. Orders that already
// snapshotted it are unaffected.
func (s *Service) DeleteProduct(orgID, id string) error {
	affected, err := s.products.Delete(orgID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product %s not found", id)
	}
	return nil
}

// CreateCategory creates a category inside the organization.
func (s *Service) CreateCategory(orgID, name, icon string) (*models.Category, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	category := &models.Category{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Icon:           icon,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all categories of the organization.
func (s *Service) ListCategories(orgID string) ([]models.Category, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	return s.categories.ListByOrganization(orgID)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(orgID, id string) error {
	affected, err := s.categories.Delete(orgID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("category %s not found", id)
	}
	return nil
}

// CreateIngredient creates a stock ingredient.
func (s *Service) CreateIngredient(orgID, name, unit string, stock float64) (*models.Ingredient, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.Validation("ingredient name is required")
	}
	ingredient := &models.Ingredient{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Unit:           unit,
		Stock:          stock,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.ingredients.Create(ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// ListIngredients returns all ingredients of the organization.
func (s *Service) ListIngredients(orgID string) ([]models.Ingredient, error) {
	if _, err := s.scope.Organization(orgID); err != nil {
		return nil, err
	}
	return s.ingredients.ListByOrganization(orgID)
}

// UpdateIngredientStock sets the stock level of an ingredient.
func (s *Service) UpdateIngredientStock(orgID, id string, stock float64) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.GetByID(orgID, id)
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("ingredient %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, apperr.Validation("stock cannot be negative")
	}
	ingredient.Stock = stock
	ingredient.UpdatedAt = time.Now()
	if err := s.ingredients.Save(ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// DeleteIngredient removes an ingredient.
func (s *Service) DeleteIngredient(orgID, id string) error {
	affected, err := s.ingredients.Delete(orgID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("ingredient %s not found", id)
	}
	return nil
}
