package output

import "github.com/jimzijun/shechill-order-summary/internal/models"

var scheduleHeader = []string{
	"Fulfillment Time",
	"Recipient Name",
	"Recipient Email",
	"Recipient Phone",
	"Item Name",
	"Variation Name",
	"Item Quantity",
}

var productionHeader = []string{
	"Item Name",
	"Variation Name",
	"Item Quantity",
}

func scheduleRecord(row models.LineRow) []string {
	return []string{
		row.FulfillmentTime(),
		orEmpty(row.RecipientName),
		orEmpty(row.RecipientEmail),
		orEmpty(row.RecipientPhone),
		orEmpty(row.ItemName),
		orEmpty(row.VariationName),
		row.Quantity.String(),
	}
}

func productionRecord(row models.ProductionRow) []string {
	return []string{
		row.ItemName,
		orEmpty(row.VariationName),
		row.Quantity.String(),
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// scheduleRow is the serialised shape shared by the JSON and kafka sinks.
type scheduleRow struct {
	ReportDate      string   `json:"report_date"`
	FulfillmentTime string   `json:"fulfillment_time,omitempty"`
	RecipientName   *string  `json:"recipient_name,omitempty"`
	RecipientEmail  *string  `json:"recipient_email,omitempty"`
	RecipientPhone  *string  `json:"recipient_phone,omitempty"`
	ItemName        *string  `json:"item_name,omitempty"`
	VariationName   *string  `json:"variation_name,omitempty"`
	ItemQuantity    *float64 `json:"item_quantity,omitempty"`
}

type productionJSONRow struct {
	ReportDate    string   `json:"report_date"`
	ItemName      string   `json:"item_name"`
	VariationName *string  `json:"variation_name,omitempty"`
	ItemQuantity  *float64 `json:"item_quantity,omitempty"`
}

func scheduleRows(report models.DayReport) []scheduleRow {
	rows := make([]scheduleRow, 0, len(report.Schedule))
	for _, row := range report.Schedule {
		rows = append(rows, scheduleRow{
			ReportDate:      report.Date.String(),
			FulfillmentTime: row.FulfillmentTime(),
			RecipientName:   row.RecipientName,
			RecipientEmail:  row.RecipientEmail,
			RecipientPhone:  row.RecipientPhone,
			ItemName:        row.ItemName,
			VariationName:   row.VariationName,
			ItemQuantity:    row.Quantity.Ptr(),
		})
	}
	return rows
}

func productionRows(report models.DayReport) []productionJSONRow {
	rows := make([]productionJSONRow, 0, len(report.Production))
	for _, row := range report.Production {
		rows = append(rows, productionJSONRow{
			ReportDate:    report.Date.String(),
			ItemName:      row.ItemName,
			VariationName: row.VariationName,
			ItemQuantity:  row.Quantity.Ptr(),
		})
	}
	return rows
}
