package routing

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Server tracks the resources declared during one route-definition pass and
// registers the ones left pending when the pass ends.
type Server struct {
	name      string
	registrar ResourceRegistrar
	pending   []*PendingResourceRegistration
	routes    *RouteCollection
	logger    *zap.Logger
}

// NewServer creates a Server named name (for logging) that registers
// resources through registrar.
func NewServer(name string, registrar ResourceRegistrar, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		name:      name,
		registrar: registrar,
		routes:    NewRouteCollection(),
		logger:    logger,
	}
}

// Resource declares a resource. The returned builder is registered by
// Flush unless Register is called on it first.
func (s *Server) Resource(resourceType, controller string) *PendingResourceRegistration {
	p := NewPendingResourceRegistration(s.registrar, resourceType, controller)
	s.pending = append(s.pending, p)
	return p
}

// Resources runs fn and then flushes the resources it declared.
func (s *Server) Resources(fn func(*Server)) (*RouteCollection, error) {
	fn(s)
	return s.Flush()
}

// Flush registers every declared resource and returns all server routes.
// Resources registered before the flush are not registered again, but their
// routes are included. Failures are joined; the other resources are still
// registered.
func (s *Server) Flush() (*RouteCollection, error) {
	var errs []error
	for _, p := range s.pending {
		explicit := p.Registered()
		routes, err := p.Register()
		if err != nil {
			if !explicit {
				errs = append(errs, fmt.Errorf("register %s: %w", p.ResourceType(), err))
			}
			continue
		}
		s.routes.Merge(routes)
		s.logger.Info("resource registered",
			zap.String("server", s.name),
			zap.String("resource", p.ResourceType()),
			zap.Int("routes", routes.Len()),
			zap.Bool("explicit", explicit),
		)
	}
	s.pending = nil
	return s.routes, errors.Join(errs...)
}

// Routes returns the routes flushed so far.
func (s *Server) Routes() *RouteCollection {
	return s.routes
}
