// Package mocks provides mock implementations for testing the session layer.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	nav := mocks.NewMockNavigator(ctrl)
//	nav.EXPECT().CurrentPath().Return("/manager-home")
package mocks

// Generate mock for Navigator interface from internal/ports.
// This creates MockNavigator with Redirect and CurrentPath.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=navigator_mock.go github.com/dlretail/sessiongate/internal/ports Navigator

// Generate mock for LoginAPI interface from internal/ports.
// This creates MockLoginAPI with Authenticate.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=login_api_mock.go github.com/dlretail/sessiongate/internal/ports LoginAPI
