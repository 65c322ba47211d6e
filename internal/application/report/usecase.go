package report

import (
	"context"
	"time"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

// UseCase historial de movimientos: listado paginado y reporte PDF.
type UseCase struct {
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	generator    MovementsPDFGenerator
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	generator MovementsPDFGenerator,
) *UseCase {
	return &UseCase{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		generator:    generator,
	}
}

// ListMovements devuelve el historial del tenant, más reciente primero.
func (uc *UseCase) ListMovements(ctx context.Context, userID string, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	movements, err := uc.movementRepo.ListByUser(userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			LocationID: m.LocationID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			Notes:      m.Notes,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

// MovementsReportPDF arma el reporte completo del tenant y lo renderiza a PDF.
func (uc *UseCase) MovementsReportPDF(ctx context.Context, userID string) ([]byte, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	movements, err := uc.movementRepo.ListByUser(userID, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	productNames, skus, err := uc.productIndex(userID)
	if err != nil {
		return nil, err
	}
	locationNames, err := uc.locationIndex(userID)
	if err != nil {
		return nil, err
	}

	rep := &MovementsReport{
		UserEmail:   user.Email,
		GeneratedAt: time.Now(),
		Rows:        make([]ReportRow, 0, len(movements)),
	}
	for _, m := range movements {
		if entity.IsInbound(m.Type) {
			rep.TotalIn += m.Quantity
		} else {
			rep.TotalOut += m.Quantity
		}
		rep.Rows = append(rep.Rows, ReportRow{
			Date:         m.CreatedAt,
			ProductName:  productNames[m.ProductID],
			SKU:          skus[m.ProductID],
			LocationName: locationNames[m.LocationID],
			Type:         m.Type,
			Quantity:     m.SignedQuantity(),
			Notes:        m.Notes,
		})
	}
	return uc.generator.GenerateMovementsPDF(ctx, rep)
}

func (uc *UseCase) productIndex(userID string) (names, skus map[string]string, err error) {
	products, err := uc.productRepo.ListByUser(userID, repository.ProductFilter{})
	if err != nil {
		return nil, nil, err
	}
	names = make(map[string]string, len(products))
	skus = make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
		skus[p.ID] = p.SKU
	}
	return names, skus, nil
}

func (uc *UseCase) locationIndex(userID string) (map[string]string, error) {
	locations, err := uc.locationRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(locations))
	for _, l := range locations {
		out[l.ID] = l.Name
	}
	return out, nil
}
