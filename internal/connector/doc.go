// Package connector provides read-only views over the sources GitPatrol can
// scan: a local directory, a zip archive and a GitHub repository. Every
// source is exposed through the Connector interface so the scan loop never
// depends on where files come from.
package connector
