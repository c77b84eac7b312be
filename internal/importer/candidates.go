package importer

import (
	"context"
	"fmt"

	"tallyboard/internal/parser"
	"tallyboard/internal/store"
)

// LoadCandidates 从 settings 读取运行时扩展并重建引擎
func (c *Coordinator) LoadCandidates(ctx context.Context) error {
	var extra parser.CandidateTables
	found, err := c.store.GetSettingJSON(ctx, store.SettingCandidateOverrides, &extra)
	if err != nil {
		return fmt.Errorf("failed to load candidate overrides: %w", err)
	}
	if !found {
		return nil
	}
	c.apply(extra)
	return nil
}

// Candidates 返回生效的候选表与运行时扩展
func (c *Coordinator) Candidates() (effective, overrides parser.CandidateTables) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base.Merge(c.overrides), c.overrides.Merge(parser.CandidateTables{})
}

// SetCandidates 保存运行时扩展并替换引擎；已构造的引擎不受影响
func (c *Coordinator) SetCandidates(ctx context.Context, extra parser.CandidateTables) (parser.CandidateTables, error) {
	extra = extra.Merge(parser.CandidateTables{})
	if err := c.store.SetSettingJSON(ctx, store.SettingCandidateOverrides, extra); err != nil {
		return parser.CandidateTables{}, err
	}
	return c.apply(extra), nil
}

func (c *Coordinator) apply(extra parser.CandidateTables) parser.CandidateTables {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides = extra
	effective := c.base.Merge(extra)
	c.engine = parser.NewEngine(effective)
	return effective
}
