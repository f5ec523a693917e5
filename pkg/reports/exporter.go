package reports

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"olist-insights/pkg/models"
)

// TimestampedFilename joins dir, report name, a wall-clock stamp and
// the extension into an export path.
func TimestampedFilename(dir, name, ext string) string {
	t := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, t, ext))
}

// ExportJSON writes the report as indented JSON, creating the target
// folder when needed.
func ExportJSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// CSVTable flattens a report payload into a header plus string rows
// for ExportCSV. Undefined rates come out as "n/a", matching the table
// rendering.
func CSVTable(data any) ([]string, [][]string, error) {
	switch rows := data.(type) {
	case []models.SegmentSummary:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Segment, fmt.Sprint(r.CustomerCount),
				fmt.Sprintf("%.2f", r.AvgRecencyDays), fmt.Sprintf("%.2f", r.AvgFrequency), fmt.Sprintf("%.2f", r.AvgMonetary)}
		}
		return []string{"segment_name", "customer_count", "avg_recency_days", "avg_frequency", "avg_monetary"}, out, nil

	case []DeliveryRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Month, fmt.Sprint(r.Delivered),
				csvNull(r.AvgActualDays), csvNull(r.AvgEstimatedDays), csvNull(r.LatePct)}
		}
		return []string{"month", "delivered_orders", "avg_actual_days", "avg_estimated_days", "late_pct"}, out, nil

	case []CategoryRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Category, fmt.Sprint(r.Orders), fmt.Sprint(r.Items),
				fmt.Sprintf("%.2f", r.Revenue), fmt.Sprintf("%.2f", r.AvgPrice)}
		}
		return []string{"category", "orders", "items", "revenue", "avg_price"}, out, nil

	case ReviewSpamReport:
		out := make([][]string, len(rows.Flagged))
		for i, f := range rows.Flagged {
			out[i] = []string{f.ReviewID, f.OrderID, f.CustomerID, f.Reason}
		}
		return []string{"review_id", "order_id", "customer_id", "reason"}, out, nil

	case []MonthlyRevenueRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Month, fmt.Sprint(r.Orders), fmt.Sprintf("%.2f", r.Revenue),
				csvNull(r.PrevRevenue), csvNull(r.ChangePct)}
		}
		return []string{"month", "orders", "revenue", "prev_revenue", "change_pct"}, out, nil

	case []FunnelStage:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Stage, fmt.Sprint(r.Orders), csvNull(r.ConversionPct)}
		}
		return []string{"stage", "orders", "conversion_pct"}, out, nil

	case []PairRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.ProductA, r.ProductB, fmt.Sprint(r.Orders)}
		}
		return []string{"product_a", "product_b", "orders"}, out, nil

	case []TrendRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Category, r.WeekStart.Format("2006-01-02"),
				fmt.Sprintf("%.2f", r.Revenue), fmt.Sprintf("%.2f", r.MovingAvg)}
		}
		return []string{"category", "week_start", "revenue", "moving_avg"}, out, nil

	case []GeoCellRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{fmt.Sprintf("%.1f", r.Lat), fmt.Sprintf("%.1f", r.Lng),
				r.City, r.State, fmt.Sprint(r.Orders)}
		}
		return []string{"lat", "lng", "city", "state", "orders"}, out, nil

	case []PaymentTypeRow:
		out := make([][]string, len(rows))
		for i, r := range rows {
			out[i] = []string{r.Type, fmt.Sprint(r.Payments), fmt.Sprint(r.Orders),
				fmt.Sprintf("%.2f", r.TotalValue), fmt.Sprintf("%.1f", r.AvgInstallments), csvNull(r.SharePct)}
		}
		return []string{"payment_type", "payments", "orders", "total_value", "avg_installments", "share_pct"}, out, nil
	}
	return nil, nil, fmt.Errorf("no csv layout for %T", data)
}

func csvNull(v sql.NullFloat64) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

// ExportCSV writes the report as a header plus string rows.
func ExportCSV(filename string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
