package catalog

import (
	"github.com/jinzhu/gorm"

	"github.com/rafaapcode/waitery-backend-sub000/internal/models"
	"github.com/rafaapcode/waitery-backend-sub000/internal/pagination"
)

// ProductRepositoryInterface is the persistence contract of the product
// catalog. The batch lookup is what the order snapshot builder consumes.
type ProductRepositoryInterface interface {
	GetByIDsForOrganization(orgID string, ids []string) ([]models.Product, error)
	GetByID(orgID, id string) (*models.Product, error)
	ListByOrganization(orgID string, page pagination.Params) ([]models.Product, error)
	Create(product *models.Product) error
	Save(product *models.Product) error
	Delete(orgID, id string) (int64, error)
}

// ProductRepository is the gorm-backed product store.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByIDsForOrganization resolves the subset of ids that exist inside
// the organization's catalog, each joined with its category. Missing ids
// are simply absent from the result; the caller decides how to react.
func (r *ProductRepository) GetByIDsForOrganization(orgID string, ids []string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Category").
		Where("organization_id = ? AND id IN (?)", orgID, ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID fetches one product scoped to the organization.
func (r *ProductRepository) GetByID(orgID, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByOrganization fetches one over-fetched page of the catalog in
// stable creation order.
func (r *ProductRepository) ListByOrganization(orgID string, page pagination.Params) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Category").
		Where("organization_id = ?", orgID).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.FetchLimit()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product scoped to the organization and reports how
// many rows were removed.
func (r *ProductRepository) Delete(orgID, id string) (int64, error) {
	res := r.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// CategoryRepositoryInterface is the persistence contract of categories.
type CategoryRepositoryInterface interface {
	GetByID(orgID, id string) (*models.Category, error)
	ListByOrganization(orgID string) ([]models.Category, error)
	Create(category *models.Category) error
	Delete(orgID, id string) (int64, error)
}

// CategoryRepository is the gorm-backed category store.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetByID fetches one category scoped to the organization.
func (r *CategoryRepository) GetByID(orgID, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("id = ? AND organization_id = ?", id, orgID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByOrganization returns all categories of the organization.
func (r *CategoryRepository) ListByOrganization(orgID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Create persists a new category.
func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Delete removes a category scoped to the organization.
func (r *CategoryRepository) Delete(orgID, id string) (int64, error) {
	res := r.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Category{})
	return res.RowsAffected, res.Error
}

// IngredientRepositoryInterface is the persistence contract of stock
// ingredients.
type IngredientRepositoryInterface interface {
	GetByID(orgID, id string) (*models.Ingredient, error)
	ListByOrganization(orgID string) ([]models.Ingredient, error)
	Create(ingredient *models.Ingredient) error
	Save(ingredient *models.Ingredient) error
	Delete(orgID, id string) (int64, error)
}

// IngredientRepository is the gorm-backed ingredient store.
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates an ingredient repository.
func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// GetByID fetches one ingredient scoped to the organization.
func (r *IngredientRepository) GetByID(orgID, id string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.Where("id = ? AND organization_id = ?", id, orgID).First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// ListByOrganization returns all ingredients of the organization.
func (r *IngredientRepository) ListByOrganization(orgID string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Create persists a new ingredient.
func (r *IngredientRepository) Create(ingredient *models.Ingredient) error {
	return r.db.Create(ingredient).Error
}

// Save persists changes to an existing ingredient.
func (r *IngredientRepository) Save(ingredient *models.Ingredient) error {
	return r.db.Save(ingredient).Error
}

// Delete removes an ingredient scoped to the organization.
func (r *IngredientRepository) Delete(orgID, id string) (int64, error) {
	res := r.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.Ingredient{})
	return res.RowsAffected, res.Error
}
