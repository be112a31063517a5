// Package logging writes structured JSON logs for wnexport to a size-rotated
// file under ~/.wnexport/logs/.
//
// Terminal output is owned by the output and ui packages. With --debug the
// same records are also written to stderr.
package logging
