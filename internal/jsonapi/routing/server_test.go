package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerFlushRegistersPendingResources(t *testing.T) {
	r := &recordingRegistrar{}
	server := NewServer("v1", r, nil)

	var explicit, implicit *PendingResourceRegistration
	routes, err := server.Resources(func(s *Server) {
		explicit = s.Resource("posts", "posts").Only("index")
		_, err := explicit.Register()
		require.NoError(t, err)

		implicit = s.Resource("tags", "tags").ReadOnly()
	})
	require.NoError(t, err)

	assert.True(t, explicit.Registered())
	assert.True(t, implicit.Registered())
	assert.Equal(t, 2, r.registerCalls, "each resource is registered exactly once")

	var names []string
	for _, route := range routes.All() {
		names = append(names, route.Name)
	}
	assert.Equal(t, []string{"posts.index", "tags.index", "tags.show"}, names)
}

func TestServerFlushIsIdempotent(t *testing.T) {
	r := &recordingRegistrar{}
	server := NewServer("v1", r, nil)
	server.Resource("tags", "tags")

	_, err := server.Flush()
	require.NoError(t, err)
	routes, err := server.Flush()
	require.NoError(t, err)

	assert.Equal(t, 1, r.registerCalls)
	assert.Equal(t, 5, routes.Len())
	assert.Same(t, routes, server.Routes())
}

func TestServerFlushJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	r := &recordingRegistrar{err: boom}
	server := NewServer("v1", r, nil)

	server.Resource("tags", "tags")
	server.Resource("posts", "posts").Actions(nil)

	_, err := server.Flush()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 1, r.registerCalls)
}
