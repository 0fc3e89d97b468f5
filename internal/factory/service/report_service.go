package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService 导出Excel报表
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ExportStock 库存报表：原材料一个Sheet，成品一个Sheet
func (s *ReportService) ExportStock() (*bytes.Buffer, string, error) {
	var materials []entity.RawMaterial
	if err := s.db.Where("deleted_at IS NULL").Order("created_at ASC").Find(&materials).Error; err != nil {
		return nil, "", fmt.Errorf("查询物料失败: %w", err)
	}
	var models []entity.SofaModel
	if err := s.db.Where("deleted_at IS NULL").Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, "", fmt.Errorf("查询沙发型号失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const rawSheet = "原材料"
	f.SetSheetName("Sheet1", rawSheet)
	rawHeaders := []string{"编码", "名称", "单位", "库存数量", "单价", "最小库存", "是否预警"}
	for i, h := range rawHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(rawSheet, cell, h)
	}
	for i, m := range materials {
		row := i + 2
		alert := ""
		if m.IsLowStock() {
			alert = "预警"
		}
		values := []interface{}{m.Code, m.Name, m.Unit, m.Quantity, m.UnitCost, m.MinStock, alert}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(rawSheet, cell, v)
		}
	}

	const fgSheet = "成品"
	f.NewSheet(fgSheet)
	fgHeaders := []string{"型号", "库存数量", "材料成本", "人工成本", "其他成本", "售价"}
	for i, h := range fgHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(fgSheet, cell, h)
	}
	for i, m := range models {
		row := i + 2
		values := []interface{}{m.Name, m.StockQty, m.MaterialCost, m.LabourCost, m.OtherCost, m.SellingPrice}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(fgSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("生成库存报表失败: %w", err)
	}
	filename := fmt.Sprintf("stock_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ExportSales 销售报表，可按日期范围过滤（YYYY-MM-DD，含当日）
func (s *ReportService) ExportSales(from, to string) (*bytes.Buffer, string, error) {
	query := s.db.Model(&entity.Sale{}).Where("deleted_at IS NULL")
	if from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	var sales []entity.Sale
	if err := query.Order("created_at ASC").Find(&sales).Error; err != nil {
		return nil, "", fmt.Errorf("查询销售记录失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "销售"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"销售单号", "客户", "产品", "数量", "单价", "总额", "成本", "利润", "已收", "应收", "审批状态", "回款状态", "日期"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	var totalAmount, totalProfit, totalDue float64
	for i, sale := range sales {
		row := i + 2
		values := []interface{}{
			sale.SaleNo, sale.CustomerName, sale.ProductName, sale.Quantity,
			sale.UnitPrice, sale.TotalAmount, sale.TotalCost, sale.Profit,
			sale.PaidAmount, sale.DueAmount, sale.ApprovalStatus, sale.PaymentStatus,
			sale.CreatedAt.Format("2006-01-02"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		totalAmount += sale.TotalAmount
		totalProfit += sale.Profit
		totalDue += sale.DueAmount
	}
	// 汇总行
	sumRow := len(sales) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", sumRow), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", sumRow), totalAmount)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", sumRow), totalProfit)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", sumRow), totalDue)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("生成销售报表失败: %w", err)
	}
	filename := fmt.Sprintf("sales_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
