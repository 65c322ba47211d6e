package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. El alta con stock inicial y la purga
// pasan por el TxRunner para mantener el invariante nivel/ledger.
type ProductUseCase struct {
	txRunner     stock.TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	levelRepo    repository.StockLevelRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner stock.TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	levelRepo repository.StockLevelRepository,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		levelRepo:    levelRepo,
	}
}

// Create da de alta el producto y, en la misma transacción, el nivel inicial
// en la ubicación indicada y el movimiento "in" de stock inicial (si la
// cantidad inicial es mayor que cero).
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*entity.Product, error) {
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil || location.UserID != userID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		UserID:            userID,
		Name:              in.Name,
		SKU:               in.SKU,
		Description:       in.Description,
		Price:             in.Price,
		MinStockThreshold: in.MinStockThreshold,
		MaxStockThreshold: in.MaxStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	initialQuantity := int64(0)
	if in.InitialQuantity != nil {
		initialQuantity = *in.InitialQuantity
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if initialQuantity > 0 {
			_, err := stock.ApplyInTx(movRepo, levelRepo, stock.MovementInput{
				ProductID:  product.ID,
				LocationID: in.LocationID,
				UserID:     userID,
				Type:       entity.MovementTypeIn,
				Quantity:   initialQuantity,
				Notes:      "Initial stock",
			}, now)
			return err
		}
		// Con stock inicial cero se materializa igualmente el nivel para que
		// el producto aparezca asociado a la ubicación.
		return levelRepo.Upsert(&entity.StockLevel{
			ID:         uuid.New().String(),
			ProductID:  product.ID,
			LocationID: in.LocationID,
			Quantity:   0,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List devuelve los productos del tenant con sus niveles por ubicación.
func (uc *ProductUseCase) List(ctx context.Context, userID string, filter repository.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByUser(userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, err := uc.toResponse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// GetByID devuelve un producto del tenant con sus niveles.
func (uc *ProductUseCase) GetByID(ctx context.Context, userID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.ownedProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// Update aplica una actualización parcial: solo los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, userID, productID string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.ownedProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinStockThreshold != nil {
		product.MinStockThreshold = in.MinStockThreshold
	}
	if in.MaxStockThreshold != nil {
		product.MaxStockThreshold = in.MaxStockThreshold
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete purga el producto: borra movimientos, luego niveles y por último el
// producto, todo en una transacción. Es la única baja permitida sobre el
// ledger y siempre la inicia el tenant de forma explícita.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, productID string) error {
	if _, err := uc.ownedProduct(userID, productID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := movRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		if err := levelRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		return productRepo.Delete(productID)
	})
}

func (uc *ProductUseCase) ownedProduct(userID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product) (*dto.ProductResponse, error) {
	levels, err := uc.levelRepo.ListForProduct(p.ID)
	if err != nil {
		return nil, err
	}
	var total int64
	levelDTOs := make([]dto.StockLevelDTO, 0, len(levels))
	for _, l := range levels {
		total += l.Quantity
		levelDTOs = append(levelDTOs, dto.StockLevelDTO{
			LocationID:   l.LocationID,
			LocationName: l.LocationName,
			Quantity:     l.Quantity,
		})
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		Description:       p.Description,
		Price:             p.Price,
		MinStockThreshold: p.MinStockThreshold,
		MaxStockThreshold: p.MaxStockThreshold,
		TotalStock:        total,
		StockLevels:       levelDTOs,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}
