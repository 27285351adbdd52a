package productsync

import (
	"epos-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the product sync feature around an existing service.
func NewFeature(svc *Service, defaults reconcile.ReconcileOptions) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc, defaults)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "productsync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
