// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"

	"github.com/tanglekit/tangle-cli/internal/model"
)

// ErrNotInitialized is returned by the package-level wrappers when New has
// not been called.
var ErrNotInitialized = errors.New("database not initialized")

// The package-level wrappers delegate to the configured store so callers
// that do not need to carry a Store around (the TUI, mostly) can use the
// registry directly.

func AddDeployment(d model.Deployment) (int, error) {
	if store == nil {
		return 0, ErrNotInitialized
	}
	return store.AddDeployment(d)
}

func GetAllDeployments() ([]model.Deployment, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetAllDeployments()
}

func GetDeploymentsByStatus(status string) ([]model.Deployment, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetDeploymentsByStatus(status)
}

func GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetAllAuditLogEntries()
}

func GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store.GetRecentAuditLogEntries(limit)
}

func LogAction(action, details string) error {
	if store == nil {
		return ErrNotInitialized
	}
	return store.LogAction(action, details)
}
