package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tallyboard/internal/model"
)

// DefaultMaxFileSize 默认上传大小上限 26MB
const DefaultMaxFileSize int64 = 26 << 20

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrNoDataRows      = errors.New("file must contain a header row and at least one data row")
	ErrBlankHeader     = errors.New("file contains blank column headers")
	ErrDuplicateHeader = errors.New("file contains duplicate column headers")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader 上传文件读取器（CSV / XLSX）
type Reader struct {
	maxSize int64
}

// NewReader 创建读取器；maxSize <= 0 时使用默认上限
func NewReader(maxSize int64) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Reader{maxSize: maxSize}
}

// MaxSize 大小上限（字节）
func (r *Reader) MaxSize() int64 {
	return r.maxSize
}

// ReadTable 使用默认上限读取表格
func ReadTable(name string, src io.Reader, size int64) (*model.Table, error) {
	return NewReader(0).ReadTable(name, src, size)
}

// ReadTable 读取上传文件为表格。
// size 为调用方已知的文件大小（未知时传 -1）；CSV 取全部行，XLSX 取第一个工作表。
func (r *Reader) ReadTable(name string, src io.Reader, size int64) (*model.Table, error) {
	kind, err := fileKind(name)
	if err != nil {
		return nil, err
	}
	if size > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, r.maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(src, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, r.maxSize)
	}
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))) == 0 {
		return nil, ErrEmptyFile
	}

	var records [][]string
	switch kind {
	case "csv":
		records, err = readCSV(data)
	default:
		records, err = readXLSX(data)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(records)
}

func fileKind(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	case ".xls":
		// 仅支持 OOXML 工作簿，旧版 BIFF 格式需先另存为 .xlsx
		return "", fmt.Errorf("%w: legacy .xls workbook %s, save it as .xlsx", ErrUnsupportedFile, name)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
}

func readCSV(data []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// buildTable 首行为表头；去除末尾空表头，单元格去首尾空白，丢弃全空行
func buildTable(records [][]string) (*model.Table, error) {
	headerIdx := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, 0, len(records[headerIdx]))
	for _, h := range records[headerIdx] {
		headers = append(headers, strings.TrimSpace(h))
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if err := ValidateHeaders(headers); err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, len(records)-headerIdx-1)
	for _, rec := range records[headerIdx+1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(model.Row, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = model.StringCell(v)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return model.NewTable(headers, rows), nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ValidateHeaders 表头不能为空白或重复
func ValidateHeaders(headers []string) error {
	if len(headers) == 0 {
		return ErrEmptyFile
	}
	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("%w: column %d", ErrBlankHeader, i+1)
		}
		if _, dup := seen[h]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateHeader, h)
		}
		seen[h] = struct{}{}
	}
	return nil
}
