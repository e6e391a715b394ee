// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"os/user"
	"time"

	"github.com/tanglekit/tangle-cli/internal/model"
	"github.com/uptrace/bun"
)

// DeploymentModel maps the `deployments` table for Bun queries.
type DeploymentModel struct {
	bun.BaseModel `bun:"table:deployments"`
	ID            int    `bun:"id,pk,autoincrement"`
	BlueprintName string `bun:"blueprint_name"`
	BlueprintID   uint64 `bun:"blueprint_id"`
	RPCURL        string `bun:"rpc_url"`
	Signer        string `bun:"signer"`
	ExtrinsicHash string `bun:"extrinsic_hash"`
	ArtifactHash  string `bun:"artifact_hash"`
	Status        string `bun:"status"`
	CreatedAt     string `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// bunStore is the shared Bun-backed implementation of the Store interface.
// The backend-specific store types embed it; the dialect differences are
// handled entirely by Bun.
type bunStore struct {
	bun *bun.DB
}

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct{ bunStore }

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct{ bunStore }

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct{ bunStore }

func deploymentModelToModel(m DeploymentModel) model.Deployment {
	return model.Deployment{
		ID:            m.ID,
		BlueprintName: m.BlueprintName,
		BlueprintID:   m.BlueprintID,
		RPCURL:        m.RPCURL,
		Signer:        m.Signer,
		ExtrinsicHash: m.ExtrinsicHash,
		ArtifactHash:  m.ArtifactHash,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}

// AddDeployment inserts a deployment record and returns its new ID.
func (s *bunStore) AddDeployment(d model.Deployment) (int, error) {
	ctx := context.Background()

	createdAt := d.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	m := &DeploymentModel{
		BlueprintName: d.BlueprintName,
		BlueprintID:   d.BlueprintID,
		RPCURL:        d.RPCURL,
		Signer:        d.Signer,
		ExtrinsicHash: d.ExtrinsicHash,
		ArtifactHash:  d.ArtifactHash,
		Status:        d.Status,
		CreatedAt:     createdAt,
	}
	if _, err := s.bun.NewInsert().Model(m).Exec(ctx); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// GetAllDeployments returns all deployment records, newest first.
func (s *bunStore) GetAllDeployments() ([]model.Deployment, error) {
	ctx := context.Background()

	var ms []DeploymentModel
	if err := s.bun.NewSelect().Model(&ms).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Deployment, 0, len(ms))
	for _, m := range ms {
		out = append(out, deploymentModelToModel(m))
	}
	return out, nil
}

// GetDeploymentsByStatus returns deployments filtered by status, newest first.
func (s *bunStore) GetDeploymentsByStatus(status string) ([]model.Deployment, error) {
	ctx := context.Background()

	var ms []DeploymentModel
	if err := s.bun.NewSelect().Model(&ms).Where("status = ?", status).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Deployment, 0, len(ms))
	for _, m := range ms {
		out = append(out, deploymentModelToModel(m))
	}
	return out, nil
}

// GetDeploymentByExtrinsicHash returns the deployment with the given
// extrinsic hash, or nil when none exists.
func (s *bunStore) GetDeploymentByExtrinsicHash(hash string) (*model.Deployment, error) {
	ctx := context.Background()

	var m DeploymentModel
	err := s.bun.NewSelect().Model(&m).Where("extrinsic_hash = ?", hash).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out := deploymentModelToModel(m)
	return &out, nil
}

// UpdateDeploymentStatus sets the status for a deployment by ID.
func (s *bunStore) UpdateDeploymentStatus(id int, status string) error {
	ctx := context.Background()

	_, err := s.bun.NewUpdate().
		Model((*DeploymentModel)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteDeployment removes a deployment record by ID.
func (s *bunStore) DeleteDeployment(id int) error {
	ctx := context.Background()

	_, err := s.bun.NewDelete().
		Model((*DeploymentModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// GetAllAuditLogEntries retrieves all audit log entries, newest first.
func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return s.GetRecentAuditLogEntries(0)
}

// GetRecentAuditLogEntries retrieves up to limit audit log entries, newest
// first. A limit of 0 means no limit.
func (s *bunStore) GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	ctx := context.Background()

	q := s.bun.NewSelect().Model((*AuditLogModel)(nil)).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ms []AuditLogModel
	if err := q.Scan(ctx, &ms); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, model.AuditLogEntry{
			ID:        m.ID,
			Timestamp: m.Timestamp,
			Username:  m.Username,
			Action:    m.Action,
			Details:   m.Details,
		})
	}
	return out, nil
}

// LogAction records an action in the audit log, attributed to the current
// OS user.
func (s *bunStore) LogAction(action string, details string) error {
	ctx := context.Background()

	username := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}
	m := &AuditLogModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Username:  username,
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(m).Exec(ctx)
	return err
}
