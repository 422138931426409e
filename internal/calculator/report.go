package calculator

import (
	"context"
	"fmt"
	"pos-proximity/internal/models"
	"runtime"
	"sync"
	"sync/atomic"
)

const reportProgressEvery = 50

// ComputeReport runs the nearby ranking for every outlet and flattens the
// results into report rows. Rows follow outlet order, then rank.
func ComputeReport(ctx context.Context, outlets []models.Entity, producers []models.Entity, radiusKm float64, limit int, onProgress ProgressCallback, logger LoggerCallback) ([]models.ReportRow, error) {
	if err := validate(models.Coordinate{}, radiusKm, limit); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = func(string) {}
	}

	total := len(outlets)
	if total == 0 || len(producers) == 0 {
		logger(fmt.Sprintf("Nothing to compute: %d outlets, %d producers", total, len(producers)))
		return []models.ReportRow{}, nil
	}

	perOutlet := make([][]models.Nearby, total)

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup
	var processedCount int64

	logger(fmt.Sprintf("Starting report with %d CPUs, %d outlets, %d producers, radius %.1f km, top %d",
		numCPU, total, len(producers), radiusKm, limit))

	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()

			for idx := s; idx < e; idx++ {
				within, err := scan(ctx, producers, outlets[idx].Loc, radiusKm)
				if err != nil {
					return
				}
				perOutlet[idx] = rank(within, limit)

				count := atomic.AddInt64(&processedCount, 1)
				if count%reportProgressEvery == 0 && onProgress != nil {
					onProgress(int(count), total, "")
				}
			}
		}(start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger("Report cancelled.")
		return nil, err
	}

	if onProgress != nil {
		onProgress(total, total, "")
	}

	rows := []models.ReportRow{}
	for idx, ranked := range perOutlet {
		o := outlets[idx]
		for r, n := range ranked {
			rows = append(rows, models.ReportRow{
				OutletCode:   o.Code,
				OutletName:   o.Name,
				OutletLat:    o.Loc.Lat,
				OutletLon:    o.Loc.Lon,
				Rank:         r + 1,
				ProducerCode: n.Entity.Code,
				ProducerName: n.Entity.Name,
				ProducerLat:  n.Entity.Loc.Lat,
				ProducerLon:  n.Entity.Loc.Lon,
				DistanceKm:   n.DistanceKm,
			})
		}
	}

	logger(fmt.Sprintf("Report completed: %d rows.", len(rows)))
	return rows, nil
}
