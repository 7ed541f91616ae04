package summary

import (
	"sort"

	"github.com/jimzijun/shechill-order-summary/internal/models"
)

type productionKey struct {
	itemName     string
	variation    string
	hasVariation bool
}

// AggregateProduction sums line-row quantities per (item name, variation
// name) for the kitchen production table. A row without a variation name
// forms its own group, never merged with a named variation. Absent quantities
// do not contribute; a group where every quantity failed to parse totals
// absent, not zero. Output is sorted by item name then variation, and an
// empty input yields an empty table with the same shape.
func AggregateProduction(rows []models.LineRow) []models.ProductionRow {
	totals := make(map[productionKey]models.NullFloat)
	for _, row := range rows {
		key := productionKey{itemName: strOrEmpty(row.ItemName)}
		if row.VariationName != nil {
			key.variation = *row.VariationName
			key.hasVariation = true
		}

		total := totals[key]
		if row.Quantity.Valid {
			total = models.Float(total.Float64 + row.Quantity.Float64)
		}
		totals[key] = total
	}

	out := make([]models.ProductionRow, 0, len(totals))
	for key, total := range totals {
		row := models.ProductionRow{ItemName: key.itemName, Quantity: total}
		if key.hasVariation {
			variation := key.variation
			row.VariationName = &variation
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemName != out[j].ItemName {
			return out[i].ItemName < out[j].ItemName
		}
		return strOrEmpty(out[i].VariationName) < strOrEmpty(out[j].VariationName)
	})

	return out
}
