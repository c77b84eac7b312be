package exporter

import "tallyboard/internal/model"

// ProgressEvent 导出进度事件
type ProgressEvent struct {
	DatasetID string `json:"datasetId"`
	Percent   int    `json:"percent"`
	Stage     string `json:"stage"`
	Rows      int    `json:"rows"`  // 已写入数据行
	Total     int    `json:"total"` // 数据集总行数
}

// exportProgress 绑定单个数据集的进度回调；回调为空时静默
type exportProgress struct {
	fn        func(ProgressEvent)
	datasetID string
	total     int
	rows      int
}

func newExportProgress(fn func(ProgressEvent), ds *model.Dataset) *exportProgress {
	p := &exportProgress{fn: fn, datasetID: ds.ID}
	if ds.Table != nil {
		p.total = ds.Table.Len()
	}
	return p
}

// rowsWritten 记录已写入行数，按数据写入占 5%~85% 的区间换算百分比
func (p *exportProgress) rowsWritten(n int, stage string) {
	p.rows = n
	if p.total == 0 {
		p.report(85, stage)
		return
	}
	p.report(5+80*n/p.total, stage)
}

func (p *exportProgress) report(percent int, stage string) {
	if p.fn == nil {
		return
	}
	p.fn(ProgressEvent{
		DatasetID: p.datasetID,
		Percent:   min(max(percent, 0), 100),
		Stage:     stage,
		Rows:      p.rows,
		Total:     p.total,
	})
}
