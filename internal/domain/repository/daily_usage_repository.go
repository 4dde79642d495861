package repository

import "github.com/sforero94/Escociaos-sub004/internal/domain/entity"

// DailyUsageRepository define el puerto de persistencia de la bitácora diaria
// de consumo. Los registros solo existen mientras la aplicación no está
// cerrada; el borrado cascadea a los renglones.
type DailyUsageRepository interface {
	CreateEntry(entry *entity.DailyUsageEntry, lines []entity.DailyUsageLine) error
	GetEntry(id string) (*entity.DailyUsageEntry, error)
	DeleteEntry(id string) error
	ListByApplication(applicationID string) ([]*entity.DailyUsageEntry, error)
	ListLines(entryID string) ([]entity.DailyUsageLine, error)
	// ListLinesByApplication devuelve todos los renglones crudos de la
	// aplicación: insumo del motor de conciliación y del cierre.
	ListLinesByApplication(applicationID string) ([]entity.DailyUsageLine, error)
}
