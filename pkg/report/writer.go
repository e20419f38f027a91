// Package report is the thin, swappable output boundary for correlation
// results: it knows how to render a POI batch as CSV and nothing else,
// leaving image/mesh export to whatever external tool consumes the file.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"speckledic/internal/models"
)

// WriteCSV2D renders one row per POI2D: location, flag, displacement,
// gradient-of-displacement terms, ZNCC, iteration count, condition number
// and convergence norm.
func WriteCSV2D(w io.Writer, pois []*models.POI2D) error {
	cw := csv.NewWriter(w)
	header := []string{
		"x", "y", "flag", "u", "v", "ux", "uy", "vx", "vy",
		"zncc", "iterations", "condition_number", "convergence",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}

	for _, p := range pois {
		d := p.Result.Deformation
		row := []string{
			formatFloat(p.Location.X), formatFloat(p.Location.Y),
			p.Result.Flag.String(),
			formatFloat(d.U), formatFloat(d.V),
			formatFloat(d.Ux), formatFloat(d.Uy), formatFloat(d.Vx), formatFloat(d.Vy),
			formatFloat(p.Result.ZNCC), fmt.Sprintf("%d", p.Result.Iterations),
			formatFloat(p.Result.ConditionNumber), formatFloat(p.Result.Convergence),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSV3D is the volumetric analogue of WriteCSV2D.
func WriteCSV3D(w io.Writer, pois []*models.POI3D) error {
	cw := csv.NewWriter(w)
	header := []string{
		"x", "y", "z", "flag", "u", "v", "w",
		"ux", "uy", "uz", "vx", "vy", "vz", "wx", "wy", "wz",
		"zncc", "iterations", "condition_number", "convergence",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}

	for _, p := range pois {
		d := p.Result.Deformation
		row := []string{
			formatFloat(p.Location.X), formatFloat(p.Location.Y), formatFloat(p.Location.Z),
			p.Result.Flag.String(),
			formatFloat(d.U), formatFloat(d.V), formatFloat(d.W),
			formatFloat(d.Ux), formatFloat(d.Uy), formatFloat(d.Uz),
			formatFloat(d.Vx), formatFloat(d.Vy), formatFloat(d.Vz),
			formatFloat(d.Wx), formatFloat(d.Wy), formatFloat(d.Wz),
			formatFloat(p.Result.ZNCC), fmt.Sprintf("%d", p.Result.Iterations),
			formatFloat(p.Result.ConditionNumber), formatFloat(p.Result.Convergence),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV2D opens filename and writes pois to it, following the teacher's
// SaveSlice convention of owning the file handle for the duration of the
// write.
func SaveCSV2D(filename string, pois []*models.POI2D) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", filename, err)
	}
	defer file.Close()
	return WriteCSV2D(file, pois)
}

// SaveCSV3D is the volumetric analogue of SaveCSV2D.
func SaveCSV3D(filename string, pois []*models.POI3D) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", filename, err)
	}
	defer file.Close()
	return WriteCSV3D(file, pois)
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.10g", v)
}
