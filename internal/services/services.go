// Package services holds the write paths of the catalog. Every mutation that
// touches more than one row runs inside a single database transaction.
package services

import (
	"time"

	appErr "github.com/floreria/catalog/pkg/errors"
)

// discardTimeout bounds best-effort cleanup of storage objects that run
// after the request context may already be gone.
const discardTimeout = 10 * time.Second

// notFound replaces a repository not-found error with the client-facing
// message. Other errors pass through unchanged.
func notFound(err error, message string) error {
	if appErr.IsCode(err, appErr.CodeNotFound) {
		return appErr.NotFound(message)
	}
	return err
}
