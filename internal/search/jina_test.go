package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/jina"
	"github.com/sells-group/prospect-cli/pkg/jina/mocks"
)

func TestJinaProvider_FirstPage(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "\"Jane Doe\" Acme").Return(&jina.SearchResponse{
		Data: []jina.SearchResult{
			{Title: "Jane", URL: "https://acme.fr/team", Description: "Team page"},
			{Title: "Other", URL: "https://other.fr", Content: "body"},
			{Title: "Third", URL: "https://third.fr"},
		},
	}, nil)

	p := NewJinaProvider(client)
	hits := p.Query(context.Background(), Query{Text: "\"Jane Doe\" Acme", PageSize: 2})

	require.Len(t, hits, 2)
	assert.Equal(t, "https://acme.fr/team", hits[0].Link)
	assert.Equal(t, "Team page", hits[0].Snippet)
	assert.Equal(t, "body", hits[1].Snippet)
	assert.Equal(t, model.EngineWeb, hits[1].Engine)
}

func TestJinaProvider_NoMapsNoPaging(t *testing.T) {
	client := mocks.NewMockClient(t)
	p := NewJinaProvider(client)

	assert.Empty(t, p.Query(context.Background(), Query{Text: "x", PageSize: 10, Engine: model.EngineMaps}))
	assert.Empty(t, p.Query(context.Background(), Query{Text: "x", PageSize: 10, Offset: 10}))
	client.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestJinaProvider_ErrorIsEmpty(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Search", mock.Anything, "x").Return(nil, errors.New("timeout"))

	p := NewJinaProvider(client)
	assert.Empty(t, p.Query(context.Background(), Query{Text: "x", PageSize: 10}))
}
