// Package restore relaunches the applications of a saved session and puts
// their windows back where they were.
//
// A restore is best effort. Restorer.Restore never fails; everything that
// goes wrong is reported in the returned types.RestoreResult, errors for
// windows that could not be relaunched and warnings for windows that were
// relaunched but not fully positioned.
package restore
