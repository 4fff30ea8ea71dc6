package export

import (
	"bytes"
	"encoding/csv"

	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/billing"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/mediaplan"
	"github.com/lukefitzpatrick-am/assembledview-sub002/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CsvScheduleRendererImpl renders a billing schedule month-per-row. Only
// media types carrying spend somewhere in the schedule get a column, in the
// declared channel order, followed by the fee, ad-serving, production and
// total columns and a closing totals row.
type CsvScheduleRendererImpl struct {
}

func NewCsvScheduleRenderer() *CsvScheduleRendererImpl {
	return &CsvScheduleRendererImpl{}
}

func (t *CsvScheduleRendererImpl) RenderSchedule(schedule billing.Schedule) (string, error) {
	mediaTypes := activeMediaTypes(schedule)

	header := make([]string, 0, len(mediaTypes)+5)
	header = append(header, "Month")
	for _, mt := range mediaTypes {
		header = append(header, string(mt))
	}
	header = append(header, "Fee", "Ad Serving", "Production", "Total")

	data := make([][]string, 0, len(schedule.Months)+2)
	data = append(data, header)

	totals := make(map[mediaplan.MediaType]decimal.Decimal, len(mediaTypes))
	totalFee, totalAdServing, totalProduction := decimal.Zero, decimal.Zero, decimal.Zero

	for _, bucket := range schedule.Months {
		row := make([]string, 0, len(header))
		row = append(row, bucket.Label)
		for _, mt := range mediaTypes {
			cost := bucket.MediaCosts[mt]
			totals[mt] = totals[mt].Add(cost)
			row = append(row, money.Format(cost))
		}
		row = append(row,
			money.Format(bucket.TotalFee),
			money.Format(bucket.AdServingFee),
			money.Format(bucket.Production),
			money.Format(bucket.TotalAmount),
		)
		data = append(data, row)

		totalFee = totalFee.Add(bucket.TotalFee)
		totalAdServing = totalAdServing.Add(bucket.AdServingFee)
		totalProduction = totalProduction.Add(bucket.Production)
	}

	totalsRow := make([]string, 0, len(header))
	totalsRow = append(totalsRow, "TOTAL")
	for _, mt := range mediaTypes {
		totalsRow = append(totalsRow, money.Format(totals[mt]))
	}
	totalsRow = append(totalsRow,
		money.Format(totalFee),
		money.Format(totalAdServing),
		money.Format(totalProduction),
		money.Format(schedule.GrandTotal),
	)
	data = append(data, totalsRow)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func activeMediaTypes(schedule billing.Schedule) []mediaplan.MediaType {
	active := make(map[mediaplan.MediaType]bool)
	for _, bucket := range schedule.Months {
		for mt, cost := range bucket.MediaCosts {
			if !cost.IsZero() {
				active[mt] = true
			}
		}
	}
	var mediaTypes []mediaplan.MediaType
	for _, mt := range mediaplan.AllMediaTypes {
		if active[mt] {
			mediaTypes = append(mediaTypes, mt)
		}
	}
	return mediaTypes
}
