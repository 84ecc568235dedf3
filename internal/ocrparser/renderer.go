package ocrparser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// PageRenderer rasterises a PDF into one image per page.
type PageRenderer interface {
	// Render writes page images into dir and returns their paths in page
	// order.
	Render(ctx context.Context, pdfPath, dir string) ([]string, error)
}

// PopplerRenderer shells out to pdftoppm.
type PopplerRenderer struct {
	Path string
	DPI  int
}

// NewPopplerRenderer fills in defaults for empty settings.
func NewPopplerRenderer(path string, dpi int) *PopplerRenderer {
	if path == "" {
		path = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &PopplerRenderer{Path: path, DPI: dpi}
}

func (p *PopplerRenderer) Render(ctx context.Context, pdfPath, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, p.Path, "-r", strconv.Itoa(p.DPI), "-png", pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return pageImages(dir)
}

// pageImages lists page-N.png files sorted by page number; pdftoppm pads
// the number depending on the page count, so a plain sort is not enough.
func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory: %w", err)
	}

	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "page-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "page-"), ".png"))
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: filepath.Join(dir, name)})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}
