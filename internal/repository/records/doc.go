// Package records persists the panel's small numeric records: the
// alive-minutes counter and the controller tuning block.
//
// The FileRepository keeps every record in one JSON document written with
// protojson, keyed by record name.
package records
