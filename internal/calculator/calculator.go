package calculator

import (
	"context"
	"math"
	"pos-proximity/internal/models"
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

const (
	// Producer sets smaller than this are scanned on the calling goroutine.
	parallelThreshold = 20000
	cancelCheckEvery  = 1024
)

type ProgressCallback func(current, total int, msg string)
type LoggerCallback func(msg string)

func validate(ref models.Coordinate, radiusKm float64, limit int) error {
	if !isFinite(ref.Lat) || !isFinite(ref.Lon) {
		return errors.Wrapf(ErrInvalidReference, "lat=%v lon=%v", ref.Lat, ref.Lon)
	}
	return ValidateParams(radiusKm, limit)
}

// ValidateParams checks the radius and limit preconditions shared by every
// ranking entry point.
func ValidateParams(radiusKm float64, limit int) error {
	if !isFinite(radiusKm) || radiusKm <= 0 {
		return errors.Wrapf(ErrInvalidRadius, "radius_km=%v", radiusKm)
	}
	if limit <= 0 {
		return errors.Wrapf(ErrInvalidLimit, "limit=%d", limit)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Nearby ranks producers by great-circle distance from ref, keeps those within
// radiusKm (inclusive) and returns at most limit of them, closest first.
// Producers at equal distance keep their input order.
func Nearby(producers []models.Entity, ref models.Coordinate, radiusKm float64, limit int) ([]models.Nearby, error) {
	return NearbyContext(context.Background(), producers, ref, radiusKm, limit)
}

// NearbyContext is Nearby with cancellation. A cancelled scan returns the
// context error and no results.
func NearbyContext(ctx context.Context, producers []models.Entity, ref models.Coordinate, radiusKm float64, limit int) ([]models.Nearby, error) {
	if err := validate(ref, radiusKm, limit); err != nil {
		return nil, err
	}
	if len(producers) == 0 {
		return []models.Nearby{}, nil
	}

	var (
		within []models.Nearby
		err    error
	)
	if len(producers) < parallelThreshold {
		within, err = scan(ctx, producers, ref, radiusKm)
	} else {
		within, err = scanParallel(ctx, producers, ref, radiusKm)
	}
	if err != nil {
		return nil, err
	}

	return rank(within, limit), nil
}

func scan(ctx context.Context, producers []models.Entity, ref models.Coordinate, radiusKm float64) ([]models.Nearby, error) {
	within := []models.Nearby{}
	for idx, p := range producers {
		if idx%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		d := Haversine(ref.Lat, ref.Lon, p.Loc.Lat, p.Loc.Lon)
		if d <= radiusKm {
			within = append(within, models.Nearby{Entity: p, DistanceKm: d})
		}
	}
	return within, nil
}

// scanParallel splits producers into one chunk per CPU. Chunk results are
// joined in chunk order so the output matches scan exactly.
func scanParallel(ctx context.Context, producers []models.Entity, ref models.Coordinate, radiusKm float64) ([]models.Nearby, error) {
	total := len(producers)
	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	chunkSize := (total + numCPU - 1) / numCPU

	chunks := make([][]models.Nearby, numCPU)
	var wg sync.WaitGroup

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
		go func(slot, s, e int) {
			defer wg.Done()
			// a cancelled chunk leaves its slot nil; ctx.Err() below discards everything
			res, err := scan(ctx, producers[s:e], ref, radiusKm)
			if err == nil {
				chunks[slot] = res
			}
		}(i, start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	within := []models.Nearby{}
	for _, c := range chunks {
		within = append(within, c...)
	}
	return within, nil
}

func rank(within []models.Nearby, limit int) []models.Nearby {
	sort.SliceStable(within, func(i, j int) bool {
		return within[i].DistanceKm < within[j].DistanceKm
	})
	if len(within) > limit {
		within = within[:limit]
	}
	return within
}
