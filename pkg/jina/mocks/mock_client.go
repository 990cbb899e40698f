// Package mocks provides test doubles for the jina client.
package mocks

import (
	"context"

	jina "github.com/sells-group/prospect-cli/pkg/jina"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Read provides a mock function with given fields: ctx, targetURL, opts
func (_m *MockClient) Read(ctx context.Context, targetURL string, opts ...jina.ReadOption) (*jina.ReadResponse, error) {
	ret := _m.Called(ctx, targetURL)

	var r0 *jina.ReadResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.ReadResponse)
	}
	return r0, ret.Error(1)
}

// Search provides a mock function with given fields: ctx, query, opts
func (_m *MockClient) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	ret := _m.Called(ctx, query)

	var r0 *jina.SearchResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*jina.SearchResponse)
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
