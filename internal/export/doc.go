// Package export writes batch results to files: an Excel workbook with one
// sheet per concentration plus an integrals summary, and a PNG plot of the
// cumulative fractions of the display curve.
package export
