// Package analysis extracts time series from spreadsheet sheets that follow
// no fixed schema.
//
// A sheet is read in three passes. The first locates the timestamp column by
// scanning column by column for the first year. The second finds the header
// rows above it, starting at the "Period" cell. The third rebuilds each data
// column's category path from the header, borrowing labels from the column to
// the left where merged header cells left gaps. Data rows are then streamed
// into a RowSink, resolving months, quarters and half-years against the most
// recent year seen in the timestamp column.
//
// A sheet that fails a structural check is rejected as a whole with an *Error;
// failures never affect other sheets.
package analysis
