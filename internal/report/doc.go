// Package report renders scan results (text, table, JSON, SARIF) and manages
// baselines of accepted findings.
package report
