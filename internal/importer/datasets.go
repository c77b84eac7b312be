package importer

import (
	"context"
	"errors"
	"fmt"

	"tallyboard/internal/model"
	"tallyboard/internal/parser"
	"tallyboard/internal/service/health"
)

// ErrInvalidMapping 人工映射不合法
var ErrInvalidMapping = errors.New("invalid column mapping")

// ValidateMapping 校验人工映射：角色已知、列存在、一列只服务一个角色
func ValidateMapping(table *model.Table, mapping model.Mapping) error {
	for role, header := range mapping {
		if !role.Valid() {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidMapping, role)
		}
		if header == "" {
			continue
		}
		if !table.HasHeader(header) {
			return fmt.Errorf("%w: column %q not found", ErrInvalidMapping, header)
		}
	}
	if !mapping.Injective() {
		return fmt.Errorf("%w: a column is mapped to more than one role", ErrInvalidMapping)
	}
	return nil
}

// Remap 保存人工确认的映射并重新计算健康分
func (c *Coordinator) Remap(ctx context.Context, id string, mapping model.Mapping) (*model.Dataset, error) {
	ds, err := c.store.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateMapping(ds.Table, mapping); err != nil {
		return nil, err
	}

	cleaned := model.Mapping{}
	for _, e := range mapping.Entries() {
		cleaned[e.Role] = e.Header
	}
	score := health.UploadScore(ds.Table, cleaned)
	if err := c.store.UpdateMapping(ctx, id, cleaned, score); err != nil {
		return nil, err
	}
	ds.Mapping = cleaned
	ds.HealthScore = score
	return ds, nil
}

// ColumnsResult 数据集的列分配结果
type ColumnsResult struct {
	Mapping       model.Mapping       `json:"mappedColumns"`
	Product       string              `json:"product"`
	Breakdowns    parser.Breakdowns   `json:"breakdowns"`
	BestBreakdown string              `json:"bestBreakdown"`
	BreakdownKind parser.BreakdownKind `json:"breakdownKind"`
}

// Columns 计算商品列、拆分维度与最佳单一拆分列
func (c *Coordinator) Columns(ctx context.Context, id string) (*ColumnsResult, error) {
	ds, err := c.store.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	engine := c.Engine()
	alloc := engine.Allocate(ds.Mapping, ds.Table)
	best, kind := engine.BestBreakdown(ds.Mapping, ds.Table)
	return &ColumnsResult{
		Mapping:       ds.Mapping,
		Product:       alloc.Product,
		Breakdowns:    alloc.Breakdowns,
		BestBreakdown: best,
		BreakdownKind: kind,
	}, nil
}

// Health 生成数据健康报告
func (c *Coordinator) Health(ctx context.Context, id string) (model.HealthReport, error) {
	ds, err := c.store.GetDataset(ctx, id)
	if err != nil {
		return model.HealthReport{}, err
	}
	return health.Analyze(ds.Table, ds.Mapping), nil
}

// Clean 清洗数据集并保存，返回清洗后的健康报告
func (c *Coordinator) Clean(ctx context.Context, id string) (*model.Dataset, model.HealthReport, error) {
	ds, err := c.store.GetDataset(ctx, id)
	if err != nil {
		return nil, model.HealthReport{}, err
	}
	cleaned := health.Clean(ds.Table, ds.Mapping)
	report := health.Analyze(cleaned, ds.Mapping)
	if err := c.store.UpdateData(ctx, id, cleaned, report.Score, true); err != nil {
		return nil, model.HealthReport{}, err
	}
	ds.Table = cleaned
	ds.HealthScore = report.Score
	ds.IsClean = true
	return ds, report, nil
}
