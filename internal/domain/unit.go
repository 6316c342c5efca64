package domain

import "github.com/rkhn-textiles/pos-backend/pkg/e"

// Unit — единица измерения товара.
type Unit string

const (
	UnitYards     Unit = "yards"
	UnitMeters    Unit = "meters"
	UnitKilograms Unit = "kg"
)

// Линейные коэффициенты перевода между метрами и ярдами.
// Константы не являются точными обратными величинами (1.09361 * 0.9144 != 1),
// унаследовано от действующей логики продаж.
const (
	MetersToYardsFactor = 1.09361
	YardsToMetersFactor = 0.9144
)

// ParseUnit проверяет строку на принадлежность к допустимым единицам измерения.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitYards, UnitMeters, UnitKilograms:
		return Unit(s), nil
	default:
		return "", e.ErrUnknownUnit
	}
}

// ConvertQuantity переводит количество из одной единицы в другую.
// Перевод определён только между метрами и ярдами; килограммы не переводятся.
func ConvertQuantity(quantity float64, from, to Unit) (float64, error) {
	if from == to {
		return quantity, nil
	}

	switch {
	case from == UnitMeters && to == UnitYards:
		return quantity * MetersToYardsFactor, nil
	case from == UnitYards && to == UnitMeters:
		return quantity * YardsToMetersFactor, nil
	default:
		return 0, e.ErrUnitConversion
	}
}
