package store

import (
	"context"
	"fmt"
)

// 导入状态
const (
	ImportStatusProcessing = "processing"
	ImportStatusSuccess    = "success"
	ImportStatusNeedsMap   = "needs_mapping"
	ImportStatusFailed     = "failed"
)

// ImportLog 一次上传的导入记录
type ImportLog struct {
	ID           int64   `json:"id"`
	Filename     string  `json:"filename"`
	FileSize     int64   `json:"fileSize"`
	FileHash     string  `json:"fileHash"`
	DatasetID    string  `json:"datasetId"`
	BusinessType string  `json:"businessType"`
	TotalRows    int     `json:"totalRows"`
	Confidence   float64 `json:"confidence"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"errorMessage"`
	CreatedAt    string  `json:"createdAt"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (filename, file_size, file_hash, status)
		VALUES (?, ?, ?, ?)
	`, filename, fileSize, fileHash, ImportStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(ctx context.Context, id int64, datasetID, businessType string, totalRows int, confidence float64, status, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			dataset_id = ?,
			business_type = ?,
			total_rows = ?,
			confidence = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, datasetID, businessType, totalRows, confidence, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志（最新在前）
func (s *Store) ListImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_size, file_hash, dataset_id, business_type,
			total_rows, confidence, status, error_message, COALESCE(created_at, '')
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.Filename, &l.FileSize, &l.FileHash, &l.DatasetID, &l.BusinessType,
			&l.TotalRows, &l.Confidence, &l.Status, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
