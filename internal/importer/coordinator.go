package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"tallyboard/internal/model"
	"tallyboard/internal/parser"
	"tallyboard/internal/service/excel"
	"tallyboard/internal/service/health"
	"tallyboard/internal/store"
)

// 进度事件类型
const (
	EventStart   = "start"
	EventInfo    = "info"
	EventMapping = "mapping"
	EventHealth  = "health"
	EventDone    = "done"
	EventError   = "error"
)

// Coordinator 上传协调器：读表、识别业务类型、自动映射、评分并入库
type Coordinator struct {
	store     *store.Store
	reader    *excel.Reader
	threshold float64

	mu        sync.RWMutex
	engine    *parser.Engine
	base      parser.CandidateTables // 默认表 + 配置文件扩展
	overrides parser.CandidateTables // 运行时扩展（持久化在 settings）
}

// Options 协调器选项
type Options struct {
	MaxFileSize         int64
	ConfidenceThreshold float64
	Candidates          parser.CandidateTables // 追加到默认候选表之后
}

// NewCoordinator 创建上传协调器
func NewCoordinator(st *store.Store, opts Options) *Coordinator {
	threshold := opts.ConfidenceThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = parser.DefaultConfidenceThreshold
	}
	base := parser.DefaultCandidates().Merge(opts.Candidates)
	return &Coordinator{
		store:     st,
		reader:    excel.NewReader(opts.MaxFileSize),
		threshold: threshold,
		engine:    parser.NewEngine(base),
		base:      base,
	}
}

// Engine 当前生效的列推断引擎
func (c *Coordinator) Engine() *parser.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// Threshold 人工映射的置信度阈值
func (c *Coordinator) Threshold() float64 {
	return c.threshold
}

// MaxFileSize 上传文件大小上限
func (c *Coordinator) MaxFileSize() int64 {
	return c.reader.MaxSize()
}

// ImportOptions 上传选项
type ImportOptions struct {
	FileName     string
	Reader       io.Reader
	Size         int64              // 未知时为 -1
	BusinessType model.BusinessType // 为空时自动识别
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/mapping/health/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// ImportResult 上传完成结果（done 事件数据）
type ImportResult struct {
	DatasetID          string             `json:"datasetId"`
	BusinessType       model.BusinessType `json:"businessType"`
	Mapping            model.Mapping      `json:"mappedColumns"`
	SuggestedMapping   model.Mapping      `json:"suggestedMapping"`
	Confidence         float64            `json:"confidence"`
	NeedsManualMapping bool               `json:"needsManualMapping"`
	HealthScore        int                `json:"healthScore"`
	Headers            []string           `json:"headers"`
	RowCount           int                `json:"rowCount"`
}

// Import 执行上传，返回进度通道
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, opts, progressChan)
	}()

	return progressChan
}

// doImport 执行上传逻辑
func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := filepath.Base(opts.FileName)

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventStart,
		Message: "开始上传销售数据",
		Data: map[string]string{
			"filename": filename,
		},
		Timestamp: time.Now(),
	})

	if opts.Reader == nil {
		c.fail(progressChan, "读取文件失败: 未提供文件内容", nil)
		return
	}

	hasher := sha256.New()
	table, readErr := c.reader.ReadTable(filename, io.TeeReader(opts.Reader, hasher), opts.Size)

	logID, err := c.store.CreateImportLog(ctx, filename, opts.Size, hex.EncodeToString(hasher.Sum(nil)))
	if err != nil {
		c.fail(progressChan, fmt.Sprintf("记录上传日志失败: %v", err), err)
		return
	}
	finish := func(datasetID string, bt model.BusinessType, rows int, confidence float64, status, msg string) {
		if err := c.store.FinishImportLog(context.WithoutCancel(ctx), logID, datasetID, string(bt), rows, confidence, status, msg); err != nil {
			log.Printf("finish import log %d: %v", logID, err)
		}
	}

	if readErr != nil {
		finish("", "", 0, 0, store.ImportStatusFailed, readErr.Error())
		c.fail(progressChan, fmt.Sprintf("读取文件失败: %v", readErr), readErr)
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("读取 %d 行，%d 列", table.Len(), len(table.Headers)),
		Data: map[string]interface{}{
			"headers":  table.Headers,
			"rowCount": table.Len(),
		},
		Timestamp: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		finish("", "", table.Len(), 0, store.ImportStatusFailed, err.Error())
		c.fail(progressChan, "上传已取消", err)
		return
	}

	businessType := parser.ResolveBusinessType(opts.BusinessType, filename, table.Headers)
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("业务类型: %s", businessType),
		Data: map[string]string{
			"businessType": string(businessType),
		},
		Timestamp: time.Now(),
	})

	suggested := parser.AutoMap(table, businessType)
	confidence := parser.Confidence(suggested, table.Sample())
	needsManual := parser.NeedsManualMapping(confidence, c.threshold)
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventMapping,
		Message: fmt.Sprintf("自动映射 %d 列，置信度 %.2f", len(suggested), confidence),
		Data: map[string]interface{}{
			"mappedColumns":      suggested,
			"confidence":         confidence,
			"needsManualMapping": needsManual,
		},
		Timestamp: time.Now(),
	})

	// 置信度不足时不保存建议映射，等待人工确认
	mapping := suggested
	score := 0
	if needsManual {
		mapping = model.Mapping{}
	} else {
		score = health.UploadScore(table, mapping)
		c.sendProgress(progressChan, ProgressEvent{
			Type:    EventHealth,
			Message: fmt.Sprintf("健康分 %d", score),
			Data: map[string]interface{}{
				"healthScore": score,
				"label":       health.Label(score),
			},
			Timestamp: time.Now(),
		})
	}

	ds := &model.Dataset{
		BusinessType: businessType,
		FileName:     filename,
		Table:        table,
		Mapping:      mapping,
		HealthScore:  score,
	}
	if err := c.store.SaveDataset(ctx, ds); err != nil {
		finish("", businessType, table.Len(), confidence, store.ImportStatusFailed, err.Error())
		c.fail(progressChan, fmt.Sprintf("保存数据集失败: %v", err), err)
		return
	}

	status := store.ImportStatusSuccess
	if needsManual {
		status = store.ImportStatusNeedsMap
	}
	finish(ds.ID, businessType, table.Len(), confidence, status, "")

	log.Printf("import %s: dataset=%s type=%s rows=%d confidence=%.2f manual=%v (%s)",
		filename, ds.ID, businessType, table.Len(), confidence, needsManual, time.Since(startTime).Round(time.Millisecond))

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventDone,
		Message: fmt.Sprintf("上传完成，耗时 %s", time.Since(startTime).Round(time.Millisecond)),
		Data: &ImportResult{
			DatasetID:          ds.ID,
			BusinessType:       businessType,
			Mapping:            mapping,
			SuggestedMapping:   suggested,
			Confidence:         confidence,
			NeedsManualMapping: needsManual,
			HealthScore:        score,
			Headers:            table.Headers,
			RowCount:           table.Len(),
		},
		Timestamp: time.Now(),
	})
}

// fail 发送错误事件；Data 携带原始错误，便于调用方区分错误类型
func (c *Coordinator) fail(progressChan chan ProgressEvent, message string, err error) {
	c.sendProgress(progressChan, ProgressEvent{
		Type:      EventError,
		Message:   message,
		Data:      err,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件（非阻塞）
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
