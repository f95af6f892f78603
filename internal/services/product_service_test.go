package services_test

import (
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepo is a testify mock of repositories.ProductRepository.
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetAll(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepo)
	productService := services.NewProductService(mockRepo)

	filter := repositories.ProductFilter{Category: "shirts", PublishedOnly: true, Limit: 2}
	page := []models.Product{
		{ID: "1", Name: "Oxford Shirt", Price: 500, Category: "shirts"},
		{ID: "2", Name: "Flannel Shirt", Price: 350, Category: "shirts"},
	}

	mockRepo.On("GetAll", filter).Return(page, int64(7), nil).Once()

	products, total, err := productService.ListProducts(filter)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, "Oxford Shirt", products[0].Name)
	mockRepo.AssertExpectations(t)

	// Repository errors propagate unchanged.
	mockRepo.On("GetAll", repositories.ProductFilter{}).Return(nil, int64(0), fmt.Errorf("database error")).Once()
	_, _, err = productService.ListProducts(repositories.ProductFilter{})
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepo)
	productService := services.NewProductService(mockRepo)

	product := &models.Product{ID: "1", Name: "Oxford Shirt", Price: 500}
	mockRepo.On("GetByID", "1").Return(product, nil).Once()

	found, err := productService.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, product, found)
	mockRepo.AssertExpectations(t)

	mockRepo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err = productService.GetProductByID("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	productService := services.NewProductService(mockRepo)

	product := &models.Product{Name: "Linen Trousers", Price: 200, SKU: "LIN-002"}
	mockRepo.On("Create", product).Return(nil).Once()

	err := productService.CreateProduct(product)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	productService := services.NewProductService(mockRepo)

	product := &models.Product{ID: "1", Name: "Oxford Shirt", Price: 450}
	mockRepo.On("Update", product).Return(nil).Once()

	err := productService.UpdateProduct(product)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	productService := services.NewProductService(mockRepo)

	mockRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, productService.DeleteProduct("1"))

	mockRepo.On("Delete", "missing").Return(repositories.ErrNotFound).Once()
	assert.ErrorIs(t, productService.DeleteProduct("missing"), repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
