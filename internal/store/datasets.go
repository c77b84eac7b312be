package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tallyboard/internal/model"
)

// ErrDatasetNotFound 数据集不存在
var ErrDatasetNotFound = errors.New("dataset not found")

// timeLayout 定长时间格式，保证按文本排序即按时间排序
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveDataset 保存数据集；ID 为空时生成新 ID，时间戳由存储层维护
func (s *Store) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	if ds.ID == "" {
		ds.ID = uuid.New().String()
	}
	data, err := json.Marshal(tableOrEmpty(ds.Table))
	if err != nil {
		return fmt.Errorf("failed to encode dataset rows: %w", err)
	}
	mapping, err := encodeMapping(ds.Mapping)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	ds.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (
			id, business_type, file_name,
			data, mapped_columns, row_count,
			health_score, is_clean,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			business_type = excluded.business_type,
			file_name = excluded.file_name,
			data = excluded.data,
			mapped_columns = excluded.mapped_columns,
			row_count = excluded.row_count,
			health_score = excluded.health_score,
			is_clean = excluded.is_clean,
			updated_at = excluded.updated_at
	`,
		ds.ID, string(ds.BusinessType), ds.FileName,
		string(data), mapping, ds.Table.Len(),
		ds.HealthScore, ds.IsClean,
		ds.CreatedAt.Format(timeLayout), ds.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

// GetDataset 获取完整数据集
func (s *Store) GetDataset(ctx context.Context, id string) (*model.Dataset, error) {
	var (
		ds                   model.Dataset
		businessType         string
		data, mapping        string
		isClean              bool
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, business_type, file_name, data, mapped_columns,
			health_score, is_clean, created_at, updated_at
		FROM datasets WHERE id = ?
	`, id).Scan(&ds.ID, &businessType, &ds.FileName, &data, &mapping,
		&ds.HealthScore, &isClean, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
		}
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}

	ds.BusinessType = model.BusinessType(businessType)
	ds.IsClean = isClean
	ds.Table = &model.Table{}
	if err := json.Unmarshal([]byte(data), ds.Table); err != nil {
		return nil, fmt.Errorf("failed to decode dataset rows: %w", err)
	}
	if ds.Mapping, err = decodeMapping(mapping); err != nil {
		return nil, err
	}
	ds.CreatedAt = parseTime(createdAt)
	ds.UpdatedAt = parseTime(updatedAt)
	return &ds, nil
}

// ListDatasets 列出数据集摘要（最新在前）
func (s *Store) ListDatasets(ctx context.Context) ([]model.DatasetSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_type, file_name, row_count, health_score, is_clean, created_at
		FROM datasets
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	out := []model.DatasetSummary{}
	for rows.Next() {
		var (
			sum          model.DatasetSummary
			businessType string
			createdAt    string
		)
		if err := rows.Scan(&sum.ID, &businessType, &sum.FileName, &sum.RowCount,
			&sum.HealthScore, &sum.IsClean, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		sum.BusinessType = model.BusinessType(businessType)
		sum.CreatedAt = parseTime(createdAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// UpdateMapping 更新列映射与健康分
func (s *Store) UpdateMapping(ctx context.Context, id string, mapping model.Mapping, healthScore int) error {
	encoded, err := encodeMapping(mapping)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE datasets SET mapped_columns = ?, health_score = ?, updated_at = ?
		WHERE id = ?
	`, encoded, healthScore, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}
	return requireAffected(res, id)
}

// UpdateData 替换数据行（清洗后），同时更新健康分与清洗标记
func (s *Store) UpdateData(ctx context.Context, id string, table *model.Table, healthScore int, isClean bool) error {
	data, err := json.Marshal(tableOrEmpty(table))
	if err != nil {
		return fmt.Errorf("failed to encode dataset rows: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE datasets SET data = ?, row_count = ?, health_score = ?, is_clean = ?, updated_at = ?
		WHERE id = ?
	`, string(data), table.Len(), healthScore, isClean, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update dataset rows: %w", err)
	}
	return requireAffected(res, id)
}

// DeleteDataset 删除数据集
func (s *Store) DeleteDataset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return nil
}

func tableOrEmpty(t *model.Table) *model.Table {
	if t == nil {
		return &model.Table{Headers: []string{}, Rows: []model.Row{}}
	}
	return t
}

func encodeMapping(m model.Mapping) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m.Clone())
	if err != nil {
		return "", fmt.Errorf("failed to encode mapping: %w", err)
	}
	return string(b), nil
}

func decodeMapping(s string) (model.Mapping, error) {
	m := model.Mapping{}
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return m, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
