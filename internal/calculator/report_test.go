package calculator

import (
	"context"
	"fmt"
	"pos-proximity/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outlet(code string, lat, lon float64) models.Entity {
	return models.Entity{
		Code: code,
		Name: "Outlet " + code,
		Role: models.RoleOutlet,
		Loc:  models.Coordinate{Lat: lat, Lon: lon},
	}
}

func TestComputeReport(t *testing.T) {
	outlets := []models.Entity{
		outlet("O1", 41.00, 29.00),
		outlet("O2", 39.93, 32.85), // no producer within 30 km
		outlet("O3", 41.10, 29.00),
	}
	producers := []models.Entity{
		producer("P1", 41.00, 29.00),
		producer("P2", 41.10, 29.00),
		producer("P3", 42.50, 29.00),
	}

	var lastCurrent, lastTotal int
	var logs []string
	rows, err := ComputeReport(context.Background(), outlets, producers, 30, 1,
		func(current, total int, _ string) { lastCurrent, lastTotal = current, total },
		func(msg string) { logs = append(logs, msg) },
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "O1", rows[0].OutletCode)
	assert.Equal(t, "P1", rows[0].ProducerCode)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 0.0, rows[0].DistanceKm)

	assert.Equal(t, "O3", rows[1].OutletCode)
	assert.Equal(t, "P2", rows[1].ProducerCode)
	assert.Equal(t, 1, rows[1].Rank)

	assert.Equal(t, 3, lastCurrent)
	assert.Equal(t, 3, lastTotal)
	assert.NotEmpty(t, logs)
}

func TestComputeReport_RanksFollowDistance(t *testing.T) {
	outlets := []models.Entity{outlet("O1", 41.00, 29.00)}
	producers := []models.Entity{
		producer("P2", 41.10, 29.00),
		producer("P1", 41.00, 29.00),
		producer("P4", 41.05, 29.00),
	}

	rows, err := ComputeReport(context.Background(), outlets, producers, 30, 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, want := range []string{"P1", "P4", "P2"} {
		assert.Equal(t, want, rows[i].ProducerCode)
		assert.Equal(t, i+1, rows[i].Rank)
	}
}

func TestComputeReport_ManyOutletsKeepOrder(t *testing.T) {
	var outlets []models.Entity
	for i := 0; i < 500; i++ {
		outlets = append(outlets, outlet(fmt.Sprintf("O%03d", i), 41.00, 29.00))
	}
	producers := []models.Entity{producer("P1", 41.00, 29.00)}

	rows, err := ComputeReport(context.Background(), outlets, producers, 5, 5, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, len(outlets))
	for i, row := range rows {
		assert.Equal(t, outlets[i].Code, row.OutletCode)
	}
}

func TestComputeReport_Empty(t *testing.T) {
	rows, err := ComputeReport(context.Background(), nil, []models.Entity{producer("P1", 0, 0)}, 10, 5, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = ComputeReport(context.Background(), []models.Entity{outlet("O1", 0, 0)}, nil, 10, 5, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestComputeReport_Preconditions(t *testing.T) {
	_, err := ComputeReport(context.Background(), nil, nil, 0, 5, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRadius)

	_, err = ComputeReport(context.Background(), nil, nil, 10, 0, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestComputeReport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, err := ComputeReport(ctx, []models.Entity{outlet("O1", 41, 29)}, []models.Entity{producer("P1", 41, 29)}, 10, 5, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rows)
}
