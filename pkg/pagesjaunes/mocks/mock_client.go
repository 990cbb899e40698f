// Package mocks provides test doubles for the pagesjaunes client.
package mocks

import (
	"context"

	pagesjaunes "github.com/sells-group/prospect-cli/pkg/pagesjaunes"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, activity, location, limit
func (_m *MockClient) Search(ctx context.Context, activity string, location string, limit int) ([]pagesjaunes.Listing, error) {
	ret := _m.Called(ctx, activity, location, limit)

	var r0 []pagesjaunes.Listing
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]pagesjaunes.Listing)
	}
	return r0, ret.Error(1)
}

// Details provides a mock function with given fields: ctx, listingURL
func (_m *MockClient) Details(ctx context.Context, listingURL string) (*pagesjaunes.Details, error) {
	ret := _m.Called(ctx, listingURL)

	var r0 *pagesjaunes.Details
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*pagesjaunes.Details)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient and registers cleanup
// assertions on t.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
