// Package notebook decodes Jupyter notebook documents into a closed set of
// Go types.
//
// A decoded Document is an ordered list of cells. Markdown, code and raw
// cells are distinct types implementing Cell; code cell outputs are stream,
// data (display_data and execute_result) or error records implementing
// Output. Callers branch on these with a type switch.
//
// Source and text bodies may be stored in the file either as one string or
// as a list of line fragments. Both forms are normalised at decode time into
// a single Text value so downstream code never sees the difference.
//
// Format 4 documents decode directly. Formats 1 to 3 are upgraded to the
// format 4 shape without changing the order of cells or outputs.
package notebook
