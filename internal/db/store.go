// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/tanglekit/tangle-cli/internal/model"
)

// Store defines the interface for all local registry operations.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Deployment methods
	AddDeployment(d model.Deployment) (int, error)
	GetAllDeployments() ([]model.Deployment, error)
	GetDeploymentsByStatus(status string) ([]model.Deployment, error)
	GetDeploymentByExtrinsicHash(hash string) (*model.Deployment, error)
	UpdateDeploymentStatus(id int, status string) error
	DeleteDeployment(id int) error

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error
}
