// Package core runs imports and exports for registered catalog entities.
//
// It is the layer shared by the web server and the porter CLI: it looks up
// the entity definition, takes a slot from the [JobLimiter], wires the
// entity's validator and the store into the porter pipelines, and keeps
// finished import runs in memory so their error logs can be downloaded.
//
// # Import
//
//	run, err := svc.Import(ctx, "candidates", porter.FileSource("roster.csv"))
//	if err != nil {
//	    // unknown entity, busy, cancelled
//	}
//	if run.Result.Err != nil {
//	    // file could not be read at all
//	}
//
// Rows that fail validation or insertion never stop a run; they are listed
// in run.Result.Errors and in the CSV written by [Service.ErrorLog].
//
// # Export
//
//	url, err := svc.Export(ctx, "subjects", ExportRequest{Format: "xlsx"})
//
// # Error Codes
//
// [MapError] turns any error returned here into a [UserMessage] with a
// support code. See error_messages.go for the full list.
package core
