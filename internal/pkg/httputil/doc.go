// Package httputil holds the JSON response and query helpers shared by the
// dashboard handlers.
package httputil
