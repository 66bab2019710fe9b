package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/export"
)

// ensureDisplay computes the display curve of the largest concentration
// when res does not carry one yet, as happens for runs stored without a
// plot.
func ensureDisplay(res *batch.Result) {
	if res.Display != nil || len(res.Concentrations) == 0 {
		return
	}
	c := res.Concentrations[len(res.Concentrations)-1]
	res.Display = batch.NewDisplayCurve(c, res.Grid.Min(), res.Grid.Max())
	res.Request.IncludePlot = true
}

// writeOutputs writes the workbook and plot files that have a path. It
// returns the paths written and, on failure, the path that failed.
func writeOutputs(res *batch.Result, xlsxPath, pngPath string) (written []string, failed string, err error) {
	if xlsxPath != "" {
		if err := writeFile(xlsxPath, func(w io.Writer) error {
			return export.WriteWorkbook(w, res)
		}); err != nil {
			return written, xlsxPath, err
		}
		written = append(written, xlsxPath)
	}
	if pngPath != "" {
		ensureDisplay(res)
		if err := writeFile(pngPath, func(w io.Writer) error {
			return export.RenderPlot(w, res.Display)
		}); err != nil {
			return written, pngPath, err
		}
		written = append(written, pngPath)
	}
	return written, "", nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
