// Package mocks provides test doubles for the linkedin client.
package mocks

import (
	"context"

	linkedin "github.com/sells-group/prospect-cli/pkg/linkedin"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchProfiles provides a mock function with given fields: ctx, req
func (_m *MockClient) SearchProfiles(ctx context.Context, req linkedin.SearchRequest) ([]linkedin.Profile, error) {
	ret := _m.Called(ctx, req)

	var r0 []linkedin.Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]linkedin.Profile)
	}
	return r0, ret.Error(1)
}

// ProfileDetails provides a mock function with given fields: ctx, profileURL
func (_m *MockClient) ProfileDetails(ctx context.Context, profileURL string) (*linkedin.ProfileDetails, error) {
	ret := _m.Called(ctx, profileURL)

	var r0 *linkedin.ProfileDetails
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*linkedin.ProfileDetails)
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
