package report

import (
	"bytes"
	"strings"
	"testing"

	"speckledic/internal/models"
)

func TestWriteCSV2D(t *testing.T) {
	pois := []*models.POI2D{
		{Location: models.Point2D{X: 10, Y: 20}},
		{Location: models.Point2D{X: 30, Y: 40}},
	}
	pois[0].Result.Flag = models.FlagOK
	pois[0].Result.Deformation = *models.NewDeformation2D2()
	pois[0].Result.Deformation.U = 1.5
	pois[0].Result.ZNCC = 0.97
	pois[1].Result.Flag = models.FlagOutOfROI

	var buf bytes.Buffer
	if err := WriteCSV2D(&buf, pois); err != nil {
		t.Fatalf("WriteCSV2D failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "ok") || !strings.Contains(lines[1], "1.5") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "out-of-roi") {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestWriteCSV3D(t *testing.T) {
	pois := []*models.POI3D{
		{Location: models.Point3D{X: 1, Y: 2, Z: 3}},
	}
	pois[0].Result.Flag = models.FlagOK
	pois[0].Result.Deformation = *models.NewDeformation3D1()

	var buf bytes.Buffer
	if err := WriteCSV3D(&buf, pois); err != nil {
		t.Fatalf("WriteCSV3D failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
}
