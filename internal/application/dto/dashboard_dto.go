package dto

// ProductSalesDTO agregado de unidades vendidas por producto.
type ProductSalesDTO struct {
	ProductID        string `json:"id"`
	Name             string `json:"name"`
	TotalQuantityOut int64  `json:"total_quantity_out"`
}

// DashboardSummaryResponse métricas del dashboard del tenant.
type DashboardSummaryResponse struct {
	TotalSKUs            int64             `json:"totalSkus"`
	LowStockProducts     int64             `json:"lowStockProducts"`
	OutOfStockProducts   int64             `json:"outOfStockProducts"`
	TopSellingProducts   []ProductSalesDTO `json:"topSellingProducts"`
	LeastSellingProducts []ProductSalesDTO `json:"leastSellingProducts"`
}

// StockAlertDTO fila de alerta de stock bajo o agotado.
type StockAlertDTO struct {
	ProductID    string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	LocationName string `json:"location_name"`
	CurrentStock int64  `json:"current_stock"`
	MinThreshold *int64 `json:"min_stock_threshold,omitempty"`
}
