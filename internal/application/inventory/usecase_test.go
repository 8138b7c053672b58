package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base de datos: mapas protegidos por un mutex. El
// fakeTxRunner toma el mutex durante toda la transacción, lo que reproduce la
// serialización que en PostgreSQL producen los locks FOR UPDATE sobre
// productos compartidos. Los repos "sueltos" (fuera de transacción) toman el
// mutex por operación.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements map[string]*entity.InventoryMovement // solo cabeceras
	items     map[string]*entity.MovementItem
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.InventoryMovement),
		items:     make(map[string]*entity.MovementItem),
	}
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func copyMovement(m *entity.InventoryMovement) *entity.InventoryMovement {
	cp := *m
	cp.Items = nil
	return &cp
}

func copyItem(it *entity.MovementItem) *entity.MovementItem {
	cp := *it
	cp.Product = nil
	return &cp
}

type fakeProductRepo struct {
	s    *memStore
	inTx bool
}

func (r *fakeProductRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	defer r.lock()()
	r.s.products[p.ID] = copyProduct(p)
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(ids []string) ([]*entity.Product, error) {
	defer r.lock()()
	return r.getMany(ids), nil
}

func (r *fakeProductRepo) GetByIDsForUpdate(ids []string) ([]*entity.Product, error) {
	defer r.lock()()
	return r.getMany(ids), nil
}

func (r *fakeProductRepo) getMany(ids []string) []*entity.Product {
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.Version != p.Version {
		return domain.ErrVersionConflict
	}
	cp := copyProduct(p)
	cp.Version++
	r.s.products[p.ID] = cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(id string, stock int) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.Version++
	return nil
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int, error) {
	defer r.lock()()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, copyProduct(p))
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) Delete(id string) error {
	defer r.lock()()
	delete(r.s.products, id)
	return nil
}

type fakeMovementRepo struct {
	s    *memStore
	inTx bool
}

func (r *fakeMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	defer r.lock()()
	r.s.movements[m.ID] = copyMovement(m)
	for _, it := range m.Items {
		r.s.items[it.ID] = copyItem(it)
	}
	return nil
}

func (r *fakeMovementRepo) GetByID(id string, withItems bool) (*entity.InventoryMovement, error) {
	defer r.lock()()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	out := copyMovement(m)
	if withItems {
		for _, it := range r.s.items {
			if it.MovementID != id {
				continue
			}
			cp := copyItem(it)
			if p, ok := r.s.products[it.ProductID]; ok {
				cp.Product = copyProduct(p)
			}
			out.Items = append(out.Items, cp)
		}
		sort.Slice(out.Items, func(i, j int) bool {
			if out.Items[i].CreatedAt.Equal(out.Items[j].CreatedAt) {
				return out.Items[i].ID < out.Items[j].ID
			}
			return out.Items[i].CreatedAt.Before(out.Items[j].CreatedAt)
		})
	}
	return out, nil
}

func (r *fakeMovementRepo) UpdateHeader(m *entity.InventoryMovement) error {
	defer r.lock()()
	cur, ok := r.s.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.MovementType = m.MovementType
	cur.Reference = m.Reference
	cur.Notes = m.Notes
	cur.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *fakeMovementRepo) UpdateStatus(id, status string, postedAt *time.Time) error {
	defer r.lock()()
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	if postedAt != nil {
		m.PostedAt = postedAt
	}
	return nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	defer r.lock()()
	delete(r.s.movements, id)
	for itemID, it := range r.s.items {
		if it.MovementID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r *fakeMovementRepo) AddItem(it *entity.MovementItem) error {
	defer r.lock()()
	r.s.items[it.ID] = copyItem(it)
	return nil
}

func (r *fakeMovementRepo) GetItemByID(itemID string) (*entity.MovementItem, error) {
	defer r.lock()()
	it, ok := r.s.items[itemID]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

func (r *fakeMovementRepo) RemoveItem(itemID string) error {
	defer r.lock()()
	delete(r.s.items, itemID)
	return nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.InventoryMovement, int, error) {
	defer r.lock()()
	out := make([]*entity.InventoryMovement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		out = append(out, copyMovement(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = out[:0]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

// fakeTxRunner serializa las transacciones con el mutex del store, igual que
// los locks de fila serializan contabilizaciones que comparten productos.
type fakeTxRunner struct {
	s *memStore
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(repository.InventoryMovementRepository, repository.ProductRepository) error) error {
	tr.s.mu.Lock()
	defer tr.s.mu.Unlock()
	return fn(&fakeMovementRepo{s: tr.s, inTx: true}, &fakeProductRepo{s: tr.s, inTx: true})
}

var (
	_ repository.ProductRepository           = (*fakeProductRepo)(nil)
	_ repository.InventoryMovementRepository = (*fakeMovementRepo)(nil)
	_ inventory.TxRunner                     = (*fakeTxRunner)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de entorno
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-0000000000aa"

func newTestEnv() (*inventory.MovementUseCase, *memStore) {
	store := newMemStore()
	uc := inventory.NewMovementUseCase(
		&fakeTxRunner{s: store},
		&fakeMovementRepo{s: store},
		&fakeProductRepo{s: store},
	)
	return uc, store
}

// seedProduct crea un producto activo con el stock indicado.
func seedProduct(store *memStore, sku, uom string, stock int) *entity.Product {
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          "Producto " + sku,
		UnitOfMeasure: uom,
		IsActive:      true,
		Stock:         stock,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	store.mu.Lock()
	store.products[p.ID] = p
	store.mu.Unlock()
	return p
}

func stockOf(t *testing.T, store *memStore, productID string) int {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	p, ok := store.products[productID]
	require.True(t, ok, "el producto debe existir en el store")
	return p.Stock
}

func item(productID, uom string, qty int) dto.CreateMovementItemRequest {
	return dto.CreateMovementItemRequest{ProductID: productID, Quantity: qty, UnitOfMeasure: uom}
}

// createDraft crea un borrador vía el caso de uso y devuelve su id.
func createDraft(t *testing.T, uc *inventory.MovementUseCase, movementType string, items ...dto.CreateMovementItemRequest) string {
	t.Helper()
	resp, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
		MovementType: movementType,
		Reference:    "REF-001",
		Items:        items,
	})
	require.NoError(t, err, "la creación del borrador debe funcionar")
	require.Equal(t, entity.MovementStatusDraft, resp.Status)
	return resp.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y validación de borradores
// ──────────────────────────────────────────────────────────────────────────────

// La creación deja el movimiento en DRAFT con sus ítems y no toca el stock.
func TestCreate_BorradorNoTocaStock(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 5)

	resp, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeIN,
		Reference:    "OC-778",
		Notes:        "reposición semanal",
		Items:        []dto.CreateMovementItemRequest{item(p.ID, "UN", 20)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusDraft, resp.Status)
	assert.Equal(t, entity.MovementTypeIN, resp.MovementType)
	assert.Equal(t, testUserID, resp.CreatedBy)
	assert.Nil(t, resp.PostedAt, "un borrador no tiene postedAt")
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 20, resp.Items[0].Quantity)
	assert.Equal(t, 5, stockOf(t, store, p.ID), "crear un borrador no debe mutar el stock")
}

func TestCreate_ProductoInexistente(t *testing.T) {
	uc, _ := newTestEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeIN,
		Items:        []dto.CreateMovementItemRequest{item(uuid.New().String(), "UN", 3)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_UnidadNoCoincide(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-KG", "KG", 10)

	_, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeIN,
		Items:        []dto.CreateMovementItemRequest{item(p.ID, "UN", 3)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnitMismatch,
		"la unidad del ítem debe calzar con la del maestro de productos")
}

// Regla de signo: solo ADJUST admite cantidades negativas.
func TestCreate_ReglaDeSignoPorTipo(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-002", "UN", 10)

	cases := []struct {
		name         string
		movementType string
		quantity     int
		wantErr      bool
	}{
		{"IN positiva válida", entity.MovementTypeIN, 5, false},
		{"IN negativa inválida", entity.MovementTypeIN, -5, true},
		{"OUT negativa inválida", entity.MovementTypeOUT, -1, true},
		{"ADJUST negativa válida", entity.MovementTypeADJUST, -5, false},
		{"ADJUST positiva válida", entity.MovementTypeADJUST, 5, false},
		{"TRANSFER positiva válida", entity.MovementTypeTRANSFER, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
				MovementType: tc.movementType,
				Items:        []dto.CreateMovementItemRequest{item(p.ID, "UN", tc.quantity)},
			})
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreate_SinItemsRechazado(t *testing.T) {
	uc, _ := newTestEnv()

	_, err := uc.Create(context.Background(), testUserID, dto.CreateMovementRequest{
		MovementType: entity.MovementTypeIN,
		Items:        nil,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un movimiento sin ítems no pasa la validación del DTO")
}

// ──────────────────────────────────────────────────────────────────────────────
// Contabilización (Post)
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_EntradaAplicaStock(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 5)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 20))

	resp, err := uc.Post(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusPosted, resp.Status)
	require.NotNil(t, resp.PostedAt, "la contabilización fija postedAt")
	assert.WithinDuration(t, time.Now(), *resp.PostedAt, 5*time.Second)
	assert.Equal(t, 25, stockOf(t, store, p.ID), "IN suma la cantidad al stock")
}

func TestPost_SalidaDescuentaStock(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 20)
	id := createDraft(t, uc, entity.MovementTypeOUT, item(p.ID, "UN", 8))

	_, err := uc.Post(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 12, stockOf(t, store, p.ID), "OUT resta la cantidad del stock")
}

func TestPost_AjusteNegativo(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 10)
	id := createDraft(t, uc, entity.MovementTypeADJUST, item(p.ID, "UN", -3))

	_, err := uc.Post(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, stockOf(t, store, p.ID), "ADJUST aplica la cantidad firmada tal cual")
}

func TestPost_TransferSinEfectoNeto(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 10)
	id := createDraft(t, uc, entity.MovementTypeTRANSFER, item(p.ID, "UN", 4))

	resp, err := uc.Post(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusPosted, resp.Status)
	assert.Equal(t, 10, stockOf(t, store, p.ID), "TRANSFER contabiliza sin delta neto de stock")
}

// Subflujo de stock: el error lleva el diagnóstico completo y la
// contabilización no deja ningún cambio parcial, ni siquiera sobre los otros
// productos del movimiento que sí tenían stock suficiente.
func TestPost_SubflujoDeStock_SinCambiosParciales(t *testing.T) {
	uc, store := newTestEnv()
	conStock := seedProduct(store, "SKU-OK", "UN", 100)
	sinStock := seedProduct(store, "SKU-BAJO", "UN", 5)
	id := createDraft(t, uc, entity.MovementTypeOUT,
		item(conStock.ID, "UN", 10),
		item(sinStock.ID, "UN", 9),
	)

	_, err := uc.Post(context.Background(), id)
	require.Error(t, err)

	var underflow *domain.StockUnderflowError
	require.True(t, errors.As(err, &underflow), "el error debe ser StockUnderflowError")
	assert.Equal(t, sinStock.ID, underflow.ProductID)
	assert.Equal(t, "SKU-BAJO", underflow.SKU)
	assert.Equal(t, 5, underflow.CurrentStock)
	assert.Equal(t, -9, underflow.RequestedChange)
	assert.Equal(t, -4, underflow.ResultingStock)

	assert.Equal(t, 100, stockOf(t, store, conStock.ID),
		"una contabilización fallida no deja cambios parciales en otros productos")
	assert.Equal(t, 5, stockOf(t, store, sinStock.ID))

	got, err := uc.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusDraft, got.Status,
		"el movimiento queda en DRAFT y puede corregirse y reintentarse")
}

// Ítems repetidos sobre el mismo producto se acumulan antes de validar: dos
// salidas que caben individualmente pueden no caber sumadas.
func TestPost_AcumulaDeltasPorProducto(t *testing.T) {
	uc, store := newTestEnv()

	t.Run("la suma de entradas se aplica completa", func(t *testing.T) {
		p := seedProduct(store, "SKU-SUMA", "UN", 0)
		id := createDraft(t, uc, entity.MovementTypeIN,
			item(p.ID, "UN", 5),
			item(p.ID, "UN", 7),
		)
		_, err := uc.Post(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 12, stockOf(t, store, p.ID))
	})

	t.Run("la suma de salidas se valida en conjunto", func(t *testing.T) {
		p := seedProduct(store, "SKU-NETO", "UN", 10)
		id := createDraft(t, uc, entity.MovementTypeOUT,
			item(p.ID, "UN", 6),
			item(p.ID, "UN", 5),
		)
		_, err := uc.Post(context.Background(), id)
		var underflow *domain.StockUnderflowError
		require.True(t, errors.As(err, &underflow),
			"6 y 5 caben por separado en 10, pero el neto -11 no")
		assert.Equal(t, -11, underflow.RequestedChange)
		assert.Equal(t, 10, stockOf(t, store, p.ID))
	})
}

func TestPost_DobleContabilizacionRechazada(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 10))

	_, err := uc.Post(context.Background(), id)
	require.NoError(t, err)

	_, err = uc.Post(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, 10, stockOf(t, store, p.ID),
		"el segundo intento no debe aplicar los deltas otra vez")
}

func TestPost_MovimientoVacio(t *testing.T) {
	uc, store := newTestEnv()

	// El DTO exige min=1 ítems, así que el borrador vacío se siembra directo.
	now := time.Now()
	id := uuid.New().String()
	store.mu.Lock()
	store.movements[id] = &entity.InventoryMovement{
		ID:           id,
		MovementType: entity.MovementTypeIN,
		Status:       entity.MovementStatusDraft,
		CreatedBy:    testUserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.mu.Unlock()

	_, err := uc.Post(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyMovement)
}

func TestPost_MovimientoInexistente(t *testing.T) {
	uc, _ := newTestEnv()
	_, err := uc.Post(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos contabilizaciones concurrentes compiten por el mismo producto: el stock
// alcanza solo para una. Exactamente una debe ganar.
func TestPost_ConcurrenciaUnSoloGanador(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-HOT", "UN", 10)
	id1 := createDraft(t, uc, entity.MovementTypeOUT, item(p.ID, "UN", 8))
	id2 := createDraft(t, uc, entity.MovementTypeOUT, item(p.ID, "UN", 8))

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []string{id1, id2} {
		wg.Add(1)
		go func(movID string) {
			defer wg.Done()
			_, err := uc.Post(context.Background(), movID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var oks, underflows int
	for err := range errs {
		if err == nil {
			oks++
			continue
		}
		var underflow *domain.StockUnderflowError
		require.True(t, errors.As(err, &underflow), "el perdedor debe fallar por subflujo, no por otra cosa")
		underflows++
	}
	assert.Equal(t, 1, oks, "exactamente una contabilización debe ganar")
	assert.Equal(t, 1, underflows)
	assert.Equal(t, 2, stockOf(t, store, p.ID), "solo los deltas del ganador quedan aplicados")
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados: cancelación y mutaciones de borrador
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_BorradorSinEfectoEnStock(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 5)
	id := createDraft(t, uc, entity.MovementTypeOUT, item(p.ID, "UN", 3))

	resp, err := uc.Cancel(id)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCancelled, resp.Status)
	assert.Nil(t, resp.PostedAt, "cancelar no fija postedAt")
	assert.Equal(t, 5, stockOf(t, store, p.ID), "cancelar no toca el stock")

	// CANCELLED es terminal: ni contabilizar ni volver a cancelar.
	_, err = uc.Post(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = uc.Cancel(id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancel_PostedEsTerminal(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))

	_, err := uc.Post(context.Background(), id)
	require.NoError(t, err)

	_, err = uc.Cancel(id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition,
		"un movimiento POSTED no puede cancelarse")
}

func TestUpdateYDelete_SoloBorradores(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))

	_, err := uc.Post(context.Background(), id)
	require.NoError(t, err)

	ref := "OTRA-REF"
	_, err = uc.Update(id, dto.UpdateMovementRequest{Reference: &ref})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	err = uc.Delete(id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestUpdate_CambiaCabeceraDeBorrador(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))

	newType := entity.MovementTypeADJUST
	ref := "AJUSTE-Q3"
	resp, err := uc.Update(id, dto.UpdateMovementRequest{MovementType: &newType, Reference: &ref})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeADJUST, resp.MovementType)
	assert.Equal(t, "AJUSTE-Q3", resp.Reference)
}

// Cambiar el tipo de un borrador re-aplica la regla de signo sobre sus ítems:
// un ítem negativo solo es legal bajo ADJUST. Sin este chequeo, un ADJUST con
// cantidad -5 cambiado a OUT contabilizaría un delta de +5 (OUT que aumenta
// stock).
func TestUpdate_CambioDeTipoRevalidaItems(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 10)
	id := createDraft(t, uc, entity.MovementTypeADJUST, item(p.ID, "UN", -5))

	out := entity.MovementTypeOUT
	_, err := uc.Update(id, dto.UpdateMovementRequest{MovementType: &out})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un ítem negativo impide cambiar el tipo fuera de ADJUST")

	in := entity.MovementTypeIN
	_, err = uc.Update(id, dto.UpdateMovementRequest{MovementType: &in})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El tipo no cambió: la contabilización aplica el ajuste firmado, nunca
	// un OUT invertido.
	_, err = uc.Post(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, store, p.ID), "el movimiento sigue siendo ADJUST -5")
}

func TestUpdate_CambioDeTipoConItemsPositivos(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 10)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 5))

	out := entity.MovementTypeOUT
	resp, err := uc.Update(id, dto.UpdateMovementRequest{MovementType: &out})
	require.NoError(t, err, "ítems positivos son válidos bajo cualquier tipo")
	assert.Equal(t, entity.MovementTypeOUT, resp.MovementType)
}

func TestAddItemYRemoveItem_SoloBorradores(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	otro := seedProduct(store, "SKU-002", "UN", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))

	resp, err := uc.AddItem(id, item(otro.ID, "UN", 4))
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	// Quitar el ítem recién agregado.
	var addedID string
	for _, it := range resp.Items {
		if it.ProductID == otro.ID {
			addedID = it.ID
		}
	}
	require.NotEmpty(t, addedID)
	require.NoError(t, uc.RemoveItem(addedID))

	got, err := uc.FindByID(id)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	// Sobre POSTED ya no se puede mutar la colección.
	_, err = uc.Post(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.AddItem(id, item(otro.ID, "UN", 4))
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	err = uc.RemoveItem(got.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestAddItem_RevalidaUnidad(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	kg := seedProduct(store, "SKU-KG", "KG", 0)
	id := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))

	_, err := uc.AddItem(id, item(kg.ID, "UN", 2))
	assert.ErrorIs(t, err, domain.ErrUnitMismatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestFindAll_FiltraPorEstado(t *testing.T) {
	uc, store := newTestEnv()
	p := seedProduct(store, "SKU-001", "UN", 0)
	idPosted := createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 1))
	createDraft(t, uc, entity.MovementTypeIN, item(p.ID, "UN", 2))

	_, err := uc.Post(context.Background(), idPosted)
	require.NoError(t, err)

	resp, err := uc.FindAll(dto.MovementQuery{Status: entity.MovementStatusPosted})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, idPosted, resp.Data[0].ID)
	assert.Equal(t, 1, resp.Page, "la paginación aplica los defaults")
	assert.Equal(t, 10, resp.Limit)
}
