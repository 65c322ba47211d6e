package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
	"github.com/jhoicas/StockTrack-api/pkg/metrics"
)

// MovementUseCase es el único punto por el que pasa cualquier cambio de
// cantidad de stock. Serializa read-modify-write por par (producto, ubicación)
// con bloqueo de fila (SELECT FOR UPDATE) y escribe nivel + ledger en una
// sola transacción (Commit/Rollback vía TxRunner).
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	met          *metrics.Metrics
}

// NewMovementUseCase construye el motor. met puede ser nil (tests).
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	met *metrics.Metrics,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		met:          met,
	}
}

// MovementInput entrada para aplicar un movimiento incremental.
// Quantity es una magnitud positiva; el signo lo implica Type.
type MovementInput struct {
	ProductID  string
	LocationID string
	UserID     string
	Type       string
	Quantity   int64
	Notes      string
}

// MovementResult cantidad resultante y movimiento creado.
type MovementResult struct {
	NewQuantity int64
	Movement    *entity.StockMovement
}

// AdjustInput entrada para fijar la cantidad absoluta de un nivel.
type AdjustInput struct {
	ProductID   string
	LocationID  string
	UserID      string
	NewQuantity int64
}

// AdjustResult nivel resultante y movimiento creado (nil si delta fue cero).
type AdjustResult struct {
	Level    *entity.StockLevel
	Movement *entity.StockMovement
}

// ApplyMovement valida propiedad y entrada, y aplica el movimiento de forma
// atómica: lee el nivel con bloqueo de fila (fila ausente = 0), calcula la
// nueva cantidad según el tipo, falla con ErrInsufficientStock si quedaría
// negativa, y si no, upsert del nivel + append al ledger en la misma tx.
func (uc *MovementUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if !entity.IsValidMovementType(input.Type) || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkOwnership(input.ProductID, input.LocationID, input.UserID); err != nil {
		return nil, err
	}

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.ProductRepository,
	) error {
		r, err := ApplyInTx(movRepo, levelRepo, input, time.Now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.countApplied(input.Type)
	return result, nil
}

// SetLevel fija la cantidad absoluta (ajuste de la UI). Calcula
// delta = nueva - actual: con delta cero solo refresca el timestamp del nivel
// y no registra nada; si no, aplica manual_in/manual_out con |delta| como una
// unidad atómica igual que ApplyMovement.
func (uc *MovementUseCase) SetLevel(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if input.NewQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkOwnership(input.ProductID, input.LocationID, input.UserID); err != nil {
		return nil, err
	}

	var result *AdjustResult
	movementType := ""
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.ProductRepository,
	) error {
		level, err := levelRepo.GetForUpdate(input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		delta := input.NewQuantity - level.Quantity
		now := time.Now()

		if delta == 0 {
			if err := levelRepo.Touch(input.ProductID, input.LocationID); err != nil {
				return err
			}
			level.UpdatedAt = now
			result = &AdjustResult{Level: level}
			return nil
		}

		movementType = entity.MovementTypeManualIn
		magnitude := delta
		if delta < 0 {
			movementType = entity.MovementTypeManualOut
			magnitude = -delta
		}

		level.Quantity = input.NewQuantity
		level.UpdatedAt = now
		if err := levelRepo.Upsert(level); err != nil {
			return err
		}
		movement := &entity.StockMovement{
			ID:         uuid.New().String(),
			ProductID:  input.ProductID,
			LocationID: input.LocationID,
			UserID:     input.UserID,
			Type:       movementType,
			Quantity:   magnitude,
			Notes:      "Manual adjustment",
			CreatedAt:  now,
		}
		if err := movRepo.Create(movement); err != nil {
			return err
		}
		result = &AdjustResult{Level: level, Movement: movement}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if movementType != "" {
		uc.countApplied(movementType)
	}
	return result, nil
}

// ApplyInTx aplica un movimiento usando repositorios ya atados a la
// transacción del caller (alta de producto con stock inicial, conector de
// sincronización). Las precondiciones de propiedad son responsabilidad del
// caller; la aritmética y el invariante nivel/ledger se aplican aquí.
func ApplyInTx(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	if !entity.IsValidMovementType(input.Type) || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Bloquea la fila del nivel; fila ausente equivale a cantidad 0.
	level, err := levelRepo.GetForUpdate(input.ProductID, input.LocationID)
	if err != nil {
		return nil, err
	}

	newQuantity := level.Quantity
	if entity.IsInbound(input.Type) {
		newQuantity += input.Quantity
	} else {
		newQuantity -= input.Quantity
	}
	if newQuantity < 0 {
		return nil, domain.ErrInsufficientStock
	}

	level.Quantity = newQuantity
	level.UpdatedAt = now
	if err := levelRepo.Upsert(level); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		LocationID: input.LocationID,
		UserID:     input.UserID,
		Type:       input.Type,
		Quantity:   input.Quantity,
		Notes:      input.Notes,
		CreatedAt:  now,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, err
	}
	return &MovementResult{NewQuantity: newQuantity, Movement: movement}, nil
}

// checkOwnership valida que producto y ubicación existan y pertenezcan al
// tenant. Inexistente y ajeno devuelven el mismo ErrNotFound.
func (uc *MovementUseCase) checkOwnership(productID, locationID, userID string) error {
	if productID == "" || locationID == "" || userID == "" {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.UserID != userID {
		return domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil || location.UserID != userID {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *MovementUseCase) countApplied(movementType string) {
	if uc.met != nil {
		uc.met.MovementsApplied.WithLabelValues(movementType).Inc()
	}
}
