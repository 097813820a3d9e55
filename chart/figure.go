package chart

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
)

// Figure represents a fully specified chart, an explicit handle threaded
// through every render call rather than ambient backend state.
type Figure struct {
	// Title is the chart title.
	Title string

	line *charts.Line
}

// SeriesNames returns the labels of the series on the figure in draw order.
func (f *Figure) SeriesNames() []string {
	names := make([]string, 0, len(f.line.MultiSeries))
	for idx := range f.line.MultiSeries {
		names = append(names, f.line.MultiSeries[idx].Name)
	}

	return names
}

// Render writes the figure as self contained html to the provided writer.
func (f *Figure) Render(w io.Writer) error {
	return f.line.Render(w)
}

// Save renders the figure to the provided html file path.
func (f *Figure) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating figure file %s: %w", path, err)
	}

	defer file.Close()

	if err := f.line.Render(file); err != nil {
		return fmt.Errorf("rendering figure to %s: %w", path, err)
	}

	return nil
}

// Open displays the rendered figure at the provided path with the platform
// browser opener.
func Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening figure %s: %w", path, err)
	}

	return nil
}
