// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/dbnread/pkg/api" //nolint:depguard
	"github.com/ssargent/dbnread/pkg/recordstore"
)

// StoreOpener opens the record store used by export.
type StoreOpener func(dir string) (*recordstore.Store, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	storeOpener   StoreOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		storeOpener:   recordstore.Open,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// GetStoreOpener returns the record store opener
func (c *Container) GetStoreOpener() StoreOpener {
	return c.storeOpener
}

// SetStoreOpener allows overriding the record store opener (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}
