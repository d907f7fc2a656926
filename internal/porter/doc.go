// Package porter moves records between memory and flat tabular files.
//
// It has no knowledge of entities, databases or HTTP. Callers describe the
// shape of a file with a [ColumnMap] and plug in behaviour through callbacks,
// which keeps the package usable from web handlers, CLI tools and tests alike.
//
// # Import
//
// [Import] reads a CSV (or .txt) file through a [Source]:
//
//  1. The header row is reconciled against the column map. Exact label
//     matches bind a field key to a column index; when nothing matches but
//     the header has as many cells as the map has columns, columns are bound
//     by position instead.
//  2. Each data line becomes a [Row]. Lines with only blank cells are
//     skipped without being counted.
//  3. The optional [RowValidator] decides whether the row is processed. A
//     [Rejection] is reported verbatim, any other error as "Row N: Invalid data".
//  4. The optional [RowProcessor] performs the side effect (usually a database
//     write). Its errors and panics are recorded against the row and the loop
//     continues.
//
// Structural problems (wrong extension, unreadable file, missing header, no
// mappable columns) end the run immediately and are reported through
// [ImportResult.Err] and as the only entry of [ImportResult.Errors].
//
// # Export
//
// [Exporter.Export] renders a record collection to csv, xlsx or pdf, writes
// the bytes through a [Storage] and returns the public URL of the file. File
// names follow "{stem}-{unix_timestamp}.{ext}".
//
// Cell values are looked up by dotted path on the JSON form of each record.
// A value that resolves to an object is replaced by its "name" field, HTML
// tags are stripped, and missing fields become empty strings.
package porter
