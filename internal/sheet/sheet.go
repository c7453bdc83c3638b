// Package sheet is the host side of the layout and fit engine: a print sheet
// with one placeholder per grid cell, each holding an optional image and its
// placement.
package sheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
)

var (
	ErrIndexOutOfRange = errors.New("placeholder index out of range")
	ErrNoImage         = errors.New("placeholder has no image")
	ErrNotFound        = errors.New("sheet not found")
	ErrFull            = errors.New("sheet has no empty placeholder")
)

// Placeholder is one grid cell and the image placed in it.
type Placeholder struct {
	Index  int                 `json:"index"`
	Cell   layout.CellPosition `json:"cell"`
	State  fit.State           `json:"state"`
	Source *Image              `json:"source,omitempty"`
}

// Loaded reports whether an image is placed.
func (p Placeholder) Loaded() bool {
	return p.Source != nil && p.State.Loaded()
}

// Sheet is a paper with a computed grid of placeholders.
type Sheet struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Layout          layout.LayoutConfig `json:"layout"`
	Grid            layout.Grid         `json:"grid"`
	AllowWhitespace bool                `json:"allow_whitespace"`
	ShowCropMarks   bool                `json:"show_crop_marks"`
	Placeholders    []Placeholder       `json:"placeholders"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// New creates a sheet and computes its grid. Layout errors from
// layout.ComputeGrid are returned unwrapped.
func New(title string, cfg layout.LayoutConfig, allowWhitespace, showCropMarks bool) (*Sheet, error) {
	grid, err := computeGrid(cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Sheet{
		ID:              uuid.New().String(),
		Title:           title,
		Layout:          cfg,
		Grid:            grid,
		AllowWhitespace: allowWhitespace,
		ShowCropMarks:   showCropMarks,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Placeholders = make([]Placeholder, grid.Count())
	for i, cell := range grid.Cells {
		s.Placeholders[i] = Placeholder{Index: i, Cell: cell}
	}
	return s, nil
}

func computeGrid(cfg layout.LayoutConfig) (layout.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return layout.Grid{}, fmt.Errorf("invalid layout: %w", err)
	}
	return layout.ComputeGrid(cfg)
}

// PlaceholderSizePx returns the placeholder size in 96 DPI pixels, the space
// the fit engine works in.
func (s *Sheet) PlaceholderSizePx() fit.Size {
	return fit.Size{
		W: layout.MMToPixels(s.Grid.PictureWidth),
		H: layout.MMToPixels(s.Grid.PictureHeight),
	}
}

// Relayout recomputes the grid for cfg. Placeholders that still exist keep
// their image, re-fitted to the new cell size; images in dropped cells are
// discarded. On error the sheet is left unchanged.
func (s *Sheet) Relayout(cfg layout.LayoutConfig) error {
	grid, err := computeGrid(cfg)
	if err != nil {
		return err
	}

	s.Layout = cfg
	s.Grid = grid
	size := s.PlaceholderSizePx()

	next := make([]Placeholder, grid.Count())
	for i, cell := range grid.Cells {
		next[i] = Placeholder{Index: i, Cell: cell}
		if i < len(s.Placeholders) && s.Placeholders[i].Loaded() {
			next[i].Source = s.Placeholders[i].Source
			next[i].State = fit.Resize(s.Placeholders[i].State, size, s.AllowWhitespace)
		}
	}
	s.Placeholders = next
	s.touch()
	return nil
}

func (s *Sheet) placeholder(i int) (*Placeholder, error) {
	if i < 0 || i >= len(s.Placeholders) {
		return nil, fmt.Errorf("%w: %d (sheet has %d)", ErrIndexOutOfRange, i, len(s.Placeholders))
	}
	return &s.Placeholders[i], nil
}

func (s *Sheet) loadedPlaceholder(i int) (*Placeholder, error) {
	p, err := s.placeholder(i)
	if err != nil {
		return nil, err
	}
	if !p.Loaded() {
		return nil, fmt.Errorf("%w: %d", ErrNoImage, i)
	}
	return p, nil
}

// LoadImage places img into placeholder i, replacing any previous image.
func (s *Sheet) LoadImage(i int, img *Image) error {
	p, err := s.placeholder(i)
	if err != nil {
		return err
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errors.New("image has no dimensions")
	}
	p.Source = img
	p.State = fit.Load(img.Size(), s.PlaceholderSizePx(), s.AllowWhitespace)
	s.touch()
	return nil
}

// AddImage places img into the first empty placeholder and returns its index.
func (s *Sheet) AddImage(img *Image) (int, error) {
	i := s.NextEmpty()
	if i < 0 {
		return -1, ErrFull
	}
	if err := s.LoadImage(i, img); err != nil {
		return -1, err
	}
	return i, nil
}

// Pan moves the image in placeholder i by (dx, dy) placeholder pixels.
func (s *Sheet) Pan(i int, dx, dy float64) error {
	p, err := s.loadedPlaceholder(i)
	if err != nil {
		return err
	}
	t := fit.Pan(p.State.Transform(), dx, dy, s.PlaceholderSizePx(), p.State.Image(), s.AllowWhitespace)
	p.State = p.State.WithTransform(t)
	s.touch()
	return nil
}

// Zoom applies one zoom step around cursor, given in placeholder pixels.
// A negative deltaSign zooms in.
func (s *Sheet) Zoom(i int, cursor fit.Point, deltaSign float64) error {
	p, err := s.loadedPlaceholder(i)
	if err != nil {
		return err
	}
	t := fit.ZoomAt(cursor, s.PlaceholderSizePx(), p.State.Image(), p.State.Transform(), deltaSign, s.AllowWhitespace)
	p.State = p.State.WithTransform(t)
	s.touch()
	return nil
}

// Clear removes the image from placeholder i.
func (s *Sheet) Clear(i int) error {
	p, err := s.placeholder(i)
	if err != nil {
		return err
	}
	p.Source = nil
	p.State = p.State.Reset()
	s.touch()
	return nil
}

// SetAllowWhitespace switches the whitespace mode and re-fits every loaded
// placeholder.
func (s *Sheet) SetAllowWhitespace(allow bool) {
	if s.AllowWhitespace == allow {
		return
	}
	s.AllowWhitespace = allow
	size := s.PlaceholderSizePx()
	for i := range s.Placeholders {
		s.Placeholders[i].State = fit.Refit(s.Placeholders[i].State, size, allow)
	}
	s.touch()
}

// SetTitle renames the sheet.
func (s *Sheet) SetTitle(title string) {
	s.Title = title
	s.touch()
}

// SetShowCropMarks switches crop marks on or off for rendering.
func (s *Sheet) SetShowCropMarks(show bool) {
	s.ShowCropMarks = show
	s.touch()
}

// LoadedCount returns the number of placeholders holding an image.
func (s *Sheet) LoadedCount() int {
	n := 0
	for _, p := range s.Placeholders {
		if p.Loaded() {
			n++
		}
	}
	return n
}

// NextEmpty returns the index of the first empty placeholder, or -1.
func (s *Sheet) NextEmpty() int {
	for i, p := range s.Placeholders {
		if !p.Loaded() {
			return i
		}
	}
	return -1
}

// Clone returns a copy that can be read without holding the manager lock.
// Images are shared since they are never modified after decoding.
func (s *Sheet) Clone() *Sheet {
	c := *s
	c.Grid.Cells = append([]layout.CellPosition(nil), s.Grid.Cells...)
	c.Placeholders = append([]Placeholder(nil), s.Placeholders...)
	return &c
}

func (s *Sheet) touch() {
	s.UpdatedAt = time.Now()
}
