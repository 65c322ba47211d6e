package report

import (
	"context"
	"time"
)

// ReportRow fila del reporte de historial de movimientos.
type ReportRow struct {
	Date         time.Time
	ProductName  string
	SKU          string
	LocationName string
	Type         string
	Quantity     int64 // con signo: negativo para salidas
	Notes        string
}

// MovementsReport datos listos para renderizar el PDF del historial.
type MovementsReport struct {
	UserEmail   string
	GeneratedAt time.Time
	Rows        []ReportRow
	TotalIn     int64
	TotalOut    int64
}

// MovementsPDFGenerator puerto de generación del PDF de movimientos.
type MovementsPDFGenerator interface {
	GenerateMovementsPDF(ctx context.Context, report *MovementsReport) ([]byte, error)
}
