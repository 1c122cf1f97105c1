// Package engine contains the core scanning loop for GitPatrol. It pulls
// paths from a connector, filters them, fetches content and runs the
// detector, returning structured findings. This package is internal;
// external consumers should use the stable facade in pkg/core.
package engine
