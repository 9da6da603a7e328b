package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/centavoapp/centavo/centavo-backend/internal/domain"
	"github.com/centavoapp/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   auth0ID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// GetAll retrieves all users
func (m *MockUserRepository) GetAll() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.ByID))
	for _, user := range m.ByID {
		users = append(users, user)
	}
	return users, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	CreateFn   func(category *domain.Category) (*domain.Category, error)
	GetAllFn   func(userID uuid.UUID) ([]*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[uuid.UUID]*domain.Category)}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	for _, existing := range m.Categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return nil, domain.ErrCategoryNameTaken
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// GetAllByUser retrieves all categories for a user, sorted by name
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID)
	}
	categories := make([]*domain.Category, 0)
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// GetByName retrieves a category by its name
func (m *MockCategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if category.UserID == userID && category.Name == name {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// Delete deletes a category
func (m *MockCategoryRepository) Delete(userID, categoryID uuid.UUID) error {
	category, ok := m.Categories[categoryID]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, categoryID)
	return nil
}

// DeleteAllByUser removes every category owned by the user
func (m *MockCategoryRepository) DeleteAllByUser(userID uuid.UUID) error {
	for id, category := range m.Categories {
		if category.UserID == userID {
			delete(m.Categories, id)
		}
	}
	return nil
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes  map[uuid.UUID]*domain.Income
	CreateFn func(income *domain.Income) (*domain.Income, error)
	GetAllFn func(userID uuid.UUID) ([]*domain.Income, error)
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{Incomes: make(map[uuid.UUID]*domain.Income)}
}

// Create creates a new income
func (m *MockIncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	if m.CreateFn != nil {
		return m.CreateFn(income)
	}
	income.ID = uuid.New()
	income.CreatedAt = time.Now()
	m.Incomes[income.ID] = income
	return income, nil
}

// GetAllByUser retrieves all incomes for a user, newest first
func (m *MockIncomeRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Income, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID)
	}
	incomes := make([]*domain.Income, 0)
	for _, income := range m.Incomes {
		if income.UserID == userID {
			incomes = append(incomes, income)
		}
	}
	sort.Slice(incomes, func(i, j int) bool {
		return incomes[i].Date.After(incomes[j].Date)
	})
	return incomes, nil
}

// Delete deletes an income
func (m *MockIncomeRepository) Delete(userID, incomeID uuid.UUID) error {
	income, ok := m.Incomes[incomeID]
	if !ok || income.UserID != userID {
		return domain.ErrIncomeNotFound
	}
	delete(m.Incomes, incomeID)
	return nil
}

// DeleteAllByUser removes every income owned by the user
func (m *MockIncomeRepository) DeleteAllByUser(userID uuid.UUID) error {
	for id, income := range m.Incomes {
		if income.UserID == userID {
			delete(m.Incomes, id)
		}
	}
	return nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository.
// Create is safe for concurrent use so fan-out paths can run against it.
type MockExpenseRepository struct {
	mu       sync.Mutex
	Expenses map[uuid.UUID]*domain.Expense
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
	GetAllFn func(userID uuid.UUID) ([]*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[uuid.UUID]*domain.Expense)}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetAllByUser retrieves all expenses for a user, newest first
func (m *MockExpenseRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	expenses := make([]*domain.Expense, 0)
	for _, expense := range m.Expenses {
		if expense.UserID == userID {
			expenses = append(expenses, expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses, nil
}

// Delete deletes an expense
func (m *MockExpenseRepository) Delete(userID, expenseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.Expenses[expenseID]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, expenseID)
	return nil
}

// DeleteAllByUser removes every expense owned by the user
func (m *MockExpenseRepository) DeleteAllByUser(userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, expense := range m.Expenses {
		if expense.UserID == userID {
			delete(m.Expenses, id)
		}
	}
	return nil
}

// MockInstallmentRepository is a mock implementation of domain.InstallmentRepository
type MockInstallmentRepository struct {
	Installments map[uuid.UUID]*domain.Installment
	CreateFn     func(installment *domain.Installment) (*domain.Installment, error)
	GetAllFn     func(userID uuid.UUID) ([]*domain.Installment, error)
}

// NewMockInstallmentRepository creates a new MockInstallmentRepository
func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{Installments: make(map[uuid.UUID]*domain.Installment)}
}

// Create creates a new installment
func (m *MockInstallmentRepository) Create(installment *domain.Installment) (*domain.Installment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(installment)
	}
	installment.ID = uuid.New()
	installment.CreatedAt = time.Now()
	m.Installments[installment.ID] = installment
	return installment, nil
}

// GetByID retrieves an installment by ID
func (m *MockInstallmentRepository) GetByID(userID, installmentID uuid.UUID) (*domain.Installment, error) {
	installment, ok := m.Installments[installmentID]
	if !ok || installment.UserID != userID {
		return nil, domain.ErrInstallmentNotFound
	}
	return installment, nil
}

// GetAllByUser retrieves all installments for a user, newest start date first
func (m *MockInstallmentRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Installment, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID)
	}
	installments := make([]*domain.Installment, 0)
	for _, installment := range m.Installments {
		if installment.UserID == userID {
			installments = append(installments, installment)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].StartDate.After(installments[j].StartDate)
	})
	return installments, nil
}

// DeleteAllByUser removes every installment owned by the user
func (m *MockInstallmentRepository) DeleteAllByUser(userID uuid.UUID) error {
	for id, installment := range m.Installments {
		if installment.UserID == userID {
			delete(m.Installments, id)
		}
	}
	return nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is a single recorded publish call
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}
