package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sforero94/Escociaos-sub004/internal/application/campaign"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

func newJournal(store *fakeStore) *campaign.JournalUseCase {
	return campaign.NewJournalUseCase(
		&fakeTxRunner{store: store},
		&fakeUsageRepo{store: store},
		&fakeProductRepo{store: store},
	)
}

func usageRequest(lines ...dto.UsageLineRequest) dto.RecordUsageRequest {
	return dto.RecordUsageRequest{
		Date:  time.Now(),
		Plot:  "lote-1",
		Lines: lines,
	}
}

func TestRecordUsage_GuardaValoresCrudos(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "Glifosato 480 SL", unit.Litro, "100", nil)
	store.addApplication("app-1", entity.EstadoEnEjecucion)
	uc := newJournal(store)

	entry, err := uc.RecordUsage(context.Background(), "app-1", "user-1", "María", usageRequest(
		dto.UsageLineRequest{ProductID: "glifosato", Quantity: dec("2500"), Unit: "cc"},
	))
	require.NoError(t, err)

	assert.Equal(t, "María", entry.Responsible, "sin responsable explícito se usa el usuario autenticado")
	lines := store.lines[entry.ID]
	require.Len(t, lines, 1)
	assert.True(t, dec("2500").Equal(lines[0].Quantity), "la cantidad se guarda cruda, sin normalizar")
	assert.Equal(t, unit.CC, lines[0].Unit)
	assert.Empty(t, store.movements, "la bitácora nunca toca el libro de stock")
}

func TestRecordUsage_ResponsableExplicitoGana(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "Glifosato 480 SL", unit.Litro, "100", nil)
	store.addApplication("app-1", entity.EstadoEnEjecucion)
	uc := newJournal(store)

	in := usageRequest(dto.UsageLineRequest{ProductID: "glifosato", Quantity: dec("1"), Unit: "L"})
	in.Responsible = "Pedro"
	entry, err := uc.RecordUsage(context.Background(), "app-1", "user-1", "María", in)
	require.NoError(t, err)
	assert.Equal(t, "Pedro", entry.Responsible)
}

func TestRecordUsage_SoloConAplicacionEnEjecucion(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "Glifosato 480 SL", unit.Litro, "100", nil)
	store.addApplication("planificada", entity.EstadoPlanificada)
	store.addApplication("cerrada", entity.EstadoCerrada)
	uc := newJournal(store)
	ctx := context.Background()

	line := dto.UsageLineRequest{ProductID: "glifosato", Quantity: dec("1"), Unit: "L"}

	_, err := uc.RecordUsage(ctx, "planificada", "u", "n", usageRequest(line))
	assert.ErrorIs(t, err, domain.ErrApplicationNotExecuting)

	_, err = uc.RecordUsage(ctx, "cerrada", "u", "n", usageRequest(line))
	assert.ErrorIs(t, err, domain.ErrApplicationNotExecuting)

	assert.Empty(t, store.entries, "ningún registro debe persistirse")
}

func TestRecordUsage_ValidaUnidades(t *testing.T) {
	store := newFakeStore()
	store.addProduct("urea", "Urea 46%", unit.Kilogramo, "100", nil)
	store.addApplication("app-1", entity.EstadoEnEjecucion)
	uc := newJournal(store)
	ctx := context.Background()

	_, err := uc.RecordUsage(ctx, "app-1", "u", "n", usageRequest(
		dto.UsageLineRequest{ProductID: "urea", Quantity: dec("5"), Unit: "galones"},
	))
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)

	_, err = uc.RecordUsage(ctx, "app-1", "u", "n", usageRequest(
		dto.UsageLineRequest{ProductID: "urea", Quantity: dec("5"), Unit: "L"},
	))
	assert.ErrorIs(t, err, domain.ErrIncompatibleUnit, "litros contra un producto en kilos")

	_, err = uc.RecordUsage(ctx, "app-1", "u", "n", usageRequest(
		dto.UsageLineRequest{ProductID: "urea", Quantity: dec("2"), Unit: "BULTO"},
	))
	assert.ErrorIs(t, err, domain.ErrMissingConversionFactor, "bulto sin factor kg-por-bulto")
}

func TestDeleteUsage_SoloEnEjecucion(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "Glifosato 480 SL", unit.Litro, "100", nil)
	store.addApplication("app-1", entity.EstadoEnEjecucion)
	uc := newJournal(store)
	ctx := context.Background()

	entry, err := uc.RecordUsage(ctx, "app-1", "u", "n", usageRequest(
		dto.UsageLineRequest{ProductID: "glifosato", Quantity: dec("1"), Unit: "L"},
	))
	require.NoError(t, err)

	require.NoError(t, uc.DeleteUsage(ctx, entry.ID))
	assert.Empty(t, store.entries)
	assert.Empty(t, store.lines[entry.ID], "el borrado cascadea a los renglones")
}

func TestDeleteUsage_AplicacionCerradaEsInmutable(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "Glifosato 480 SL", unit.Litro, "100", nil)
	store.addApplication("app-1", entity.EstadoEnEjecucion)
	uc := newJournal(store)
	ctx := context.Background()

	entry, err := uc.RecordUsage(ctx, "app-1", "u", "n", usageRequest(
		dto.UsageLineRequest{ProductID: "glifosato", Quantity: dec("1"), Unit: "L"},
	))
	require.NoError(t, err)

	store.applications["app-1"].State = entity.EstadoCerrada

	err = uc.DeleteUsage(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotExecuting)
	assert.Len(t, store.entries, 1, "el registro sigue intacto")

	err = uc.DeleteUsage(ctx, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
