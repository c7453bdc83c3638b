package layout

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed papers.yaml
var papersYAML []byte

// PaperSize is a print format in centimeters.
type PaperSize struct {
	Name     string  `yaml:"name" json:"name"`
	WidthCM  float64 `yaml:"width" json:"width_cm"`
	HeightCM float64 `yaml:"height" json:"height_cm"`
}

// WidthMM returns the paper width in millimeters.
func (p PaperSize) WidthMM() float64 {
	return p.WidthCM * 10
}

// HeightMM returns the paper height in millimeters.
func (p PaperSize) HeightMM() float64 {
	return p.HeightCM * 10
}

type paperList struct {
	Papers []PaperSize `yaml:"papers"`
}

var papers = mustLoadPapers()

func mustLoadPapers() []PaperSize {
	var list paperList
	if err := yaml.Unmarshal(papersYAML, &list); err != nil {
		// Embedded file, so this only fails on a broken build.
		panic("failed to unmarshal embedded papers.yaml: " + err.Error())
	}
	return list.Papers
}

// PaperSizes returns a copy of the available paper formats in index order.
func PaperSizes() []PaperSize {
	out := make([]PaperSize, len(papers))
	copy(out, papers)
	return out
}

// PaperByIndex returns the paper at index i of PaperSizes.
func PaperByIndex(i int) (PaperSize, bool) {
	if i < 0 || i >= len(papers) {
		return PaperSize{}, false
	}
	return papers[i], true
}

// PaperIndex returns the list index of the named paper, or -1. Names match
// case-insensitively ("a4", "10x15", "10X15").
func PaperIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, p := range papers {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}
