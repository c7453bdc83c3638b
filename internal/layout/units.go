package layout

// Screen placeholders are measured at CSS reference resolution (96 px per inch);
// print output defaults to PrintDPI.
const (
	ScreenDPI = 96.0
	MMPerInch = 25.4
	PrintDPI  = 300.0
	pxPerMM   = ScreenDPI / MMPerInch
)

// MMToPixels converts millimeters to screen pixels at ScreenDPI.
func MMToPixels(mm float64) float64 {
	return mm * pxPerMM
}

// MMToPixelsAt converts millimeters to pixels at an arbitrary resolution.
func MMToPixelsAt(mm, dpi float64) float64 {
	return mm * dpi / MMPerInch
}
