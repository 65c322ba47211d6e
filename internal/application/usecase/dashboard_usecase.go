package usecase

import (
	"context"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

// DashboardUseCase agregados de inventario y alertas de stock para la UI.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboardRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo}
}

// Summary devuelve las métricas agregadas del tenant.
func (uc *DashboardUseCase) Summary(ctx context.Context, userID string) (*dto.DashboardSummaryResponse, error) {
	summary, err := uc.dashboardRepo.Summary(userID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardSummaryResponse{
		TotalSKUs:            summary.TotalSKUs,
		LowStockProducts:     summary.LowStockCount,
		OutOfStockProducts:   summary.OutOfStockCount,
		TopSellingProducts:   toSalesDTOs(summary.TopSelling),
		LeastSellingProducts: toSalesDTOs(summary.LeastSelling),
	}, nil
}

// LowStockAlerts productos en o por debajo de su umbral mínimo.
func (uc *DashboardUseCase) LowStockAlerts(ctx context.Context, userID string) ([]dto.StockAlertDTO, error) {
	alerts, err := uc.dashboardRepo.LowStock(userID)
	if err != nil {
		return nil, err
	}
	return toAlertDTOs(alerts), nil
}

// OutOfStockAlerts productos con cantidad cero en alguna ubicación.
func (uc *DashboardUseCase) OutOfStockAlerts(ctx context.Context, userID string) ([]dto.StockAlertDTO, error) {
	alerts, err := uc.dashboardRepo.OutOfStock(userID)
	if err != nil {
		return nil, err
	}
	return toAlertDTOs(alerts), nil
}

func toSalesDTOs(sales []repository.ProductSales) []dto.ProductSalesDTO {
	out := make([]dto.ProductSalesDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.ProductSalesDTO{
			ProductID:        s.ProductID,
			Name:             s.ProductName,
			TotalQuantityOut: s.TotalOut,
		})
	}
	return out
}

func toAlertDTOs(alerts []repository.StockAlert) []dto.StockAlertDTO {
	out := make([]dto.StockAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.StockAlertDTO{
			ProductID:    a.ProductID,
			Name:         a.ProductName,
			SKU:          a.SKU,
			LocationName: a.LocationName,
			CurrentStock: a.CurrentStock,
			MinThreshold: a.MinThreshold,
		})
	}
	return out
}
