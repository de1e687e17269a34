package services

import (
	"context"

	"campo-listings/pkg/apiclient"
)

// APIClient is the part of *apiclient.Client the services use.
type APIClient interface {
	Get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
	Post(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Put(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Delete(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
}

var _ APIClient = (*apiclient.Client)(nil)
