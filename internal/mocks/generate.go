// Package mocks provides mock implementations for testing the agristock services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockSupplyRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).Return(supply, nil)
package mocks

// Generate mock for SupplyRepository interface from internal/core package.
// This creates MockSupplyRepository with methods for all SupplyRepository interface methods:
// Create, GetByID, List, Update, Delete, ListLowStock, Count, CountLowStock, ListRecent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=supply_repository_mock.go github.com/agristock/agristock-api/internal/core SupplyRepository

// Generate mock for EquipmentRepository interface from internal/core package.
// This creates MockEquipmentRepository with methods for all EquipmentRepository interface methods:
// Create, GetByID, List, Update, Delete, AddMaintenance, ListMaintenance, ListMaintenanceDue, Count, CountMaintenanceDue, ListRecent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=equipment_repository_mock.go github.com/agristock/agristock-api/internal/core EquipmentRepository

// Generate mock for AlertSinkRepository interface from internal/core package.
// This creates MockAlertSinkRepository with methods for all AlertSinkRepository interface methods:
// Create, GetByID, List, Delete, ListEnabled
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=alert_sink_repository_mock.go github.com/agristock/agristock-api/internal/core AlertSinkRepository

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/agristock/agristock-api/internal/core CacheRepository
