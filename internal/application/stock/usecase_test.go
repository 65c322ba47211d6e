package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

const (
	testUserID     = "user-1"
	testOtherUser  = "user-2"
	testProductID  = "prod-1"
	testLocationID = "loc-1"
)

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

type fakeLevelRepo struct {
	levels map[string]*entity.StockLevel // clave productID|locationID
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: make(map[string]*entity.StockLevel)}
}

func levelKey(productID, locationID string) string {
	return productID + "|" + locationID
}

func (r *fakeLevelRepo) Get(productID, locationID string) (*entity.StockLevel, error) {
	return r.GetForUpdate(productID, locationID)
}

func (r *fakeLevelRepo) GetForUpdate(productID, locationID string) (*entity.StockLevel, error) {
	if level, ok := r.levels[levelKey(productID, locationID)]; ok {
		copia := *level
		return &copia, nil
	}
	// Fila ausente equivale a cantidad 0
	return &entity.StockLevel{ProductID: productID, LocationID: locationID, Quantity: 0}, nil
}

func (r *fakeLevelRepo) Upsert(level *entity.StockLevel) error {
	copia := *level
	r.levels[levelKey(level.ProductID, level.LocationID)] = &copia
	return nil
}

func (r *fakeLevelRepo) Touch(productID, locationID string) error {
	if level, ok := r.levels[levelKey(productID, locationID)]; ok {
		level.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeLevelRepo) OldestForProduct(productID string) (*entity.StockLevel, error) {
	var oldest *entity.StockLevel
	for _, level := range r.levels {
		if level.ProductID != productID {
			continue
		}
		if oldest == nil || level.UpdatedAt.Before(oldest.UpdatedAt) {
			oldest = level
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copia := *oldest
	return &copia, nil
}

func (r *fakeLevelRepo) ListForProduct(productID string) ([]repository.LevelAtLocation, error) {
	var out []repository.LevelAtLocation
	for _, level := range r.levels {
		if level.ProductID == productID {
			out = append(out, repository.LevelAtLocation{
				LocationID: level.LocationID,
				Quantity:   level.Quantity,
			})
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) DeleteByProduct(productID string) error {
	for key, level := range r.levels {
		if level.ProductID == productID {
			delete(r.levels, key)
		}
	}
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(movement *entity.StockMovement) error {
	copia := *movement
	r.movements = append(r.movements, &copia)
	return nil
}

func (r *fakeMovementRepo) ListByUser(userID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.UserID != userID {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovementRepo) DeleteByProduct(productID string) error {
	var kept []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID != productID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(userID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) ListByUser(userID string, _ repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Delete(id string) error         { delete(r.products, id); return nil }

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func (r *fakeLocationRepo) Create(l *entity.Location) error { r.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.locations[id], nil
}
func (r *fakeLocationRepo) ListByUser(userID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeTxRunner invoca fn directamente con los fakes, sin transacción real.
type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	levelRepo   *fakeLevelRepo
	productRepo *fakeProductRepo
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(tr.movRepo, tr.levelRepo, tr.productRepo)
}

// ─────────────────────────────────────────────
// Armado del caso de uso
// ─────────────────────────────────────────────

type testEnv struct {
	uc        *stock.MovementUseCase
	levels    *fakeLevelRepo
	movements *fakeMovementRepo
}

func buildUseCase(t *testing.T) *testEnv {
	t.Helper()
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		testProductID: {ID: testProductID, UserID: testUserID, Name: "Camiseta", SKU: "CAM-001"},
	}}
	locationRepo := &fakeLocationRepo{locations: map[string]*entity.Location{
		testLocationID: {ID: testLocationID, UserID: testUserID, Name: "Bodega Principal"},
	}}
	levels := newFakeLevelRepo()
	movements := &fakeMovementRepo{}
	runner := &fakeTxRunner{movRepo: movements, levelRepo: levels, productRepo: productRepo}

	return &testEnv{
		uc:        stock.NewMovementUseCase(runner, productRepo, locationRepo, nil),
		levels:    levels,
		movements: movements,
	}
}

func apply(t *testing.T, env *testEnv, movementType string, qty int64) *stock.MovementResult {
	t.Helper()
	result, err := env.uc.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		UserID:     testUserID,
		Type:       movementType,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return result
}

// ─────────────────────────────────────────────
// ApplyMovement
// ─────────────────────────────────────────────

func TestApplyMovement_EntradaYSalida(t *testing.T) {
	env := buildUseCase(t)

	result := apply(t, env, entity.MovementTypeIn, 10)
	assert.Equal(t, int64(10), result.NewQuantity)
	require.NotNil(t, result.Movement)
	assert.Equal(t, entity.MovementTypeIn, result.Movement.Type)
	assert.Equal(t, int64(10), result.Movement.Quantity)

	result = apply(t, env, entity.MovementTypeOut, 4)
	assert.Equal(t, int64(6), result.NewQuantity)

	level, err := env.levels.Get(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), level.Quantity)
	assert.Len(t, env.movements.movements, 2)
}

func TestApplyMovement_StockInsuficiente_NoEscribeNada(t *testing.T) {
	env := buildUseCase(t)
	apply(t, env, entity.MovementTypeIn, 3)

	_, err := env.uc.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		UserID:     testUserID,
		Type:       entity.MovementTypeOut,
		Quantity:   5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni el nivel ni el ledger deben reflejar el movimiento rechazado
	level, err := env.levels.Get(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), level.Quantity)
	assert.Len(t, env.movements.movements, 1)
}

func TestApplyMovement_SalidaSinNivelPrevio_StockInsuficiente(t *testing.T) {
	env := buildUseCase(t)

	// Fila ausente equivale a cantidad 0
	_, err := env.uc.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		UserID:     testUserID,
		Type:       entity.MovementTypeOut,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplyMovement_EntradaValidacion(t *testing.T) {
	env := buildUseCase(t)

	casos := []struct {
		nombre string
		input  stock.MovementInput
	}{
		{"tipo inválido", stock.MovementInput{
			ProductID: testProductID, LocationID: testLocationID, UserID: testUserID,
			Type: "transfer", Quantity: 1,
		}},
		{"cantidad cero", stock.MovementInput{
			ProductID: testProductID, LocationID: testLocationID, UserID: testUserID,
			Type: entity.MovementTypeIn, Quantity: 0,
		}},
		{"cantidad negativa", stock.MovementInput{
			ProductID: testProductID, LocationID: testLocationID, UserID: testUserID,
			Type: entity.MovementTypeIn, Quantity: -5,
		}},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			_, err := env.uc.ApplyMovement(context.Background(), caso.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, env.movements.movements)
}

func TestApplyMovement_ProductoDeOtroTenant_NotFound(t *testing.T) {
	env := buildUseCase(t)

	_, err := env.uc.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		UserID:     testOtherUser,
		Type:       entity.MovementTypeIn,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_ProductoInexistente_NotFound(t *testing.T) {
	env := buildUseCase(t)

	_, err := env.uc.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID:  "prod-fantasma",
		LocationID: testLocationID,
		UserID:     testUserID,
		Type:       entity.MovementTypeIn,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────
// SetLevel (ajuste absoluto)
// ─────────────────────────────────────────────

func TestSetLevel_AjusteHaciaArriba(t *testing.T) {
	env := buildUseCase(t)
	apply(t, env, entity.MovementTypeIn, 5)

	result, err := env.uc.SetLevel(context.Background(), stock.AdjustInput{
		ProductID:   testProductID,
		LocationID:  testLocationID,
		UserID:      testUserID,
		NewQuantity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.Level.Quantity)
	require.NotNil(t, result.Movement)
	assert.Equal(t, entity.MovementTypeManualIn, result.Movement.Type)
	assert.Equal(t, int64(7), result.Movement.Quantity)
	assert.Equal(t, "Manual adjustment", result.Movement.Notes)
}

func TestSetLevel_AjusteHaciaAbajo(t *testing.T) {
	env := buildUseCase(t)
	apply(t, env, entity.MovementTypeIn, 10)

	result, err := env.uc.SetLevel(context.Background(), stock.AdjustInput{
		ProductID:   testProductID,
		LocationID:  testLocationID,
		UserID:      testUserID,
		NewQuantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Level.Quantity)
	require.NotNil(t, result.Movement)
	assert.Equal(t, entity.MovementTypeManualOut, result.Movement.Type)
	assert.Equal(t, int64(6), result.Movement.Quantity)
}

func TestSetLevel_DeltaCero_NoRegistraMovimiento(t *testing.T) {
	env := buildUseCase(t)
	apply(t, env, entity.MovementTypeIn, 8)
	previos := len(env.movements.movements)

	result, err := env.uc.SetLevel(context.Background(), stock.AdjustInput{
		ProductID:   testProductID,
		LocationID:  testLocationID,
		UserID:      testUserID,
		NewQuantity: 8,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Movement, "con delta cero no debe registrarse movimiento")
	assert.Equal(t, int64(8), result.Level.Quantity)
	assert.Len(t, env.movements.movements, previos)
}

func TestSetLevel_CantidadNegativa_InputInvalido(t *testing.T) {
	env := buildUseCase(t)

	_, err := env.uc.SetLevel(context.Background(), stock.AdjustInput{
		ProductID:   testProductID,
		LocationID:  testLocationID,
		UserID:      testUserID,
		NewQuantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────
// Invariante ledger/nivel
// ─────────────────────────────────────────────

// Reproducir el ledger en orden debe dar exactamente la cantidad del nivel.
func TestLedger_ReproduccionCoincideConNivel(t *testing.T) {
	env := buildUseCase(t)

	apply(t, env, entity.MovementTypeIn, 20)
	apply(t, env, entity.MovementTypeOut, 5)
	apply(t, env, entity.MovementTypeEcommerceOut, 3)

	_, err := env.uc.SetLevel(context.Background(), stock.AdjustInput{
		ProductID:   testProductID,
		LocationID:  testLocationID,
		UserID:      testUserID,
		NewQuantity: 15,
	})
	require.NoError(t, err)

	var replayed int64
	for _, m := range env.movements.movements {
		replayed += m.SignedQuantity()
	}

	level, err := env.levels.Get(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, level.Quantity, replayed)
}

// ─────────────────────────────────────────────
// ApplyInTx (uso desde transacciones de otros casos de uso)
// ─────────────────────────────────────────────

func TestApplyInTx_StockInicial(t *testing.T) {
	levels := newFakeLevelRepo()
	movements := &fakeMovementRepo{}

	result, err := stock.ApplyInTx(movements, levels, stock.MovementInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		UserID:     testUserID,
		Type:       entity.MovementTypeIn,
		Quantity:   50,
		Notes:      "Initial stock",
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.NewQuantity)
	assert.Equal(t, "Initial stock", result.Movement.Notes)

	level, err := levels.Get(testProductID, testLocationID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), level.Quantity)
}
