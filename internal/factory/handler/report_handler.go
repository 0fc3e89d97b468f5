package handler

import (
	"fmt"
	"net/http"

	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStock 导出库存Excel
func (h *ReportHandler) ExportStock(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportStock()
	if err != nil {
		Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportSales 导出销售Excel，支持 from/to 日期过滤
func (h *ReportHandler) ExportSales(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportSales(c.Query("from"), c.Query("to"))
	if err != nil {
		Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
