package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tallyboard/internal/model"
)

// 导出工作表名
const (
	SheetData    = "Data"
	SheetMapping = "Mapping"
	SheetHealth  = "Health"
)

// ExportXLSX 导出数据集为工作簿：数据表、列映射表，提供报告时附加健康问题表
func ExportXLSX(ds *model.Dataset, report *model.HealthReport, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()
	prog := newExportProgress(progress, ds)
	prog.report(0, "准备工作簿")

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("重命名工作表失败: %w", err)
	}
	if err := writeData(f, ds.Table, prog); err != nil {
		_ = f.Close()
		return nil, err
	}

	prog.report(85, "写入列映射")
	if err := writeMapping(f, ds.Mapping); err != nil {
		_ = f.Close()
		return nil, err
	}

	if report != nil {
		prog.report(95, "写入健康报告")
		if err := writeHealth(f, report); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	prog.report(100, "完成")
	return f, nil
}

func writeData(f *excelize.File, table *model.Table, prog *exportProgress) error {
	if table == nil {
		return nil
	}
	sw, err := f.NewStreamWriter(SheetData)
	if err != nil {
		return fmt.Errorf("创建写入流失败: %w", err)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	total := table.Len()
	for i, row := range table.Rows {
		values := make([]interface{}, len(table.Headers))
		for j, h := range table.Headers {
			c := row[h]
			switch c.Kind {
			case model.CellNumber:
				values[j] = c.Num
			case model.CellString:
				values[j] = c.Str
			default:
				values[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}
		if (i+1)%1000 == 0 {
			prog.rowsWritten(i+1, fmt.Sprintf("写入数据 %d/%d", i+1, total))
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("写入数据失败: %w", err)
	}
	prog.rowsWritten(total, fmt.Sprintf("写入数据 %d/%d", total, total))
	return nil
}

func writeMapping(f *excelize.File, mapping model.Mapping) error {
	if _, err := f.NewSheet(SheetMapping); err != nil {
		return fmt.Errorf("创建映射表失败: %w", err)
	}
	rows := [][]interface{}{{"role", "column"}}
	for _, e := range mapping.Entries() {
		rows = append(rows, []interface{}{string(e.Role), e.Header})
	}
	return setRows(f, SheetMapping, rows)
}

func writeHealth(f *excelize.File, report *model.HealthReport) error {
	if _, err := f.NewSheet(SheetHealth); err != nil {
		return fmt.Errorf("创建健康报告表失败: %w", err)
	}
	rows := [][]interface{}{
		{"score", report.Score},
		{"label", report.Label},
		{"rows", report.RowCount},
		{},
		{"type", "severity", "count", "column", "description"},
	}
	for _, is := range report.Issues {
		rows = append(rows, []interface{}{is.Type, string(is.Severity), is.Count, is.Column, is.Description})
	}
	return setRows(f, SheetHealth, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("写入 %s 第 %d 行失败: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteCSV 导出数据表为 CSV
func WriteCSV(w io.Writer, table *model.Table) error {
	cw := csv.NewWriter(w)
	if table == nil {
		cw.Flush()
		return cw.Error()
	}
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for j, h := range table.Headers {
			record[j] = row[h].Text()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("写入数据失败: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
