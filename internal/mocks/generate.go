// Package mocks provides mock implementations for testing the forecast system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and store interfaces in internal/ports. The mocks are
// generated using go:generate directives and provide a fluent API for setting
// up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockPredictionRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(pred, nil)
package mocks

// Generate mock for PredictionRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=prediction_repository_mock.go github.com/predictlab/forecast-ui-api/internal/ports PredictionRepository

// Generate mock for SourceFileRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=source_file_repository_mock.go github.com/predictlab/forecast-ui-api/internal/ports SourceFileRepository

// Generate mock for SubscriptionRepository interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=subscription_repository_mock.go github.com/predictlab/forecast-ui-api/internal/ports SubscriptionRepository

// Generate mock for RoleStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=role_store_mock.go github.com/predictlab/forecast-ui-api/internal/ports RoleStore
