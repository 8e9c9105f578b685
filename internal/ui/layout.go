package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the capital and
	// region columns are hidden.
	LayoutCompactWidth = 70

	// LayoutWideWidth is the minimum width to show the subregion column.
	LayoutWideWidth = 110
)

// Fixed row counts around the content area.
const (
	headerRows = 1
	filterRows = 1
	footerRows = 1

	// tableHeaderRows is the column title row.
	tableHeaderRows = 1
)

// Column widths.
const (
	populationColWidth = 15
	regionColWidth     = 10
	subregionColWidth  = 24
	minNameColWidth    = 16
)
