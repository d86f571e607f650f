// Package display builds the user-facing warnings printed after a run.
//
// A Warning has a title, an optional message, an optional list of affected
// paths and an optional suggestion. It is rendered through a logger.Printer,
// so colour decisions stay with the logger package:
//
//	display.DryRunNotice().Display(console)
//
//	if len(result.FailedWrites) > 0 {
//	    display.FailedWritesWarning(result.FailedWrites).Display(console)
//	}
//
// Output format:
//
//	*** Some matched files could not be rewritten (permissions maybe?)
//	    Affected files (2):
//	      1. /srv/site/a.php
//	      2. /srv/site/b.php
//	*** Fix the permissions and run again; files already updated no longer match.
package display
