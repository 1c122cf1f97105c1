// Package core provides a small, stable facade over GitPatrol's internal
// connectors and scanner for programs that embed the detector.
//
// Example:
//
//	res, err := core.ScanTarget(ctx, "./web", core.DefaultOptions())
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, res.Findings)
package core
