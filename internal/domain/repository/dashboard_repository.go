package repository

// ProductSales agregado de ventas por producto (movimientos de salida).
type ProductSales struct {
	ProductID   string
	ProductName string
	TotalOut    int64
}

// DashboardSummary métricas agregadas del tenant.
type DashboardSummary struct {
	TotalSKUs       int64
	LowStockCount   int64
	OutOfStockCount int64
	TopSelling      []ProductSales
	LeastSelling    []ProductSales
}

// StockAlert fila de alerta de stock bajo o agotado.
type StockAlert struct {
	ProductID    string
	ProductName  string
	SKU          string
	LocationName string
	CurrentStock int64
	MinThreshold *int64
}

// DashboardRepository consultas de agregación de solo lectura para el
// dashboard y las alertas.
type DashboardRepository interface {
	Summary(userID string) (*DashboardSummary, error)
	LowStock(userID string) ([]StockAlert, error)
	OutOfStock(userID string) ([]StockAlert, error)
}
