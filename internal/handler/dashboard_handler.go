package handler

import (
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	Dashboard *service.DashboardService
	Audit     *service.Auditor
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.Dashboard.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{
		"totalProducts":    stats.TotalProducts,
		"totalOrders":      stats.TotalOrders,
		"totalCategories":  stats.TotalCategories,
		"totalSales":       stats.TotalSales,
		"lowStockProducts": stats.LowStockProducts,
		"recentOrders":     stats.RecentOrders,
	})
}

// ActivityLogs handles GET /activity-logs?limit=
func (h *DashboardHandler) ActivityLogs(c echo.Context) error {
	entries, err := h.Audit.List(c.Request().Context(), queryInt(c, "limit", 0))
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"count": len(entries), "logs": entries})
}
