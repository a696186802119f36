// Package progress shows activity on stderr while long operations run.
package progress
