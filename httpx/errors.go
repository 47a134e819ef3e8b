// Package httpx holds the HTTP response helpers shared by the handlers. Each
// helper logs a short dotted code identifying the failure and writes the
// response, so that the handlers can return straight after.
package httpx

import (
	"fmt"
	"net"
	"net/http"

	"github.com/ideflorbio/extrativista-sheets/log"
)

// Logs the error and sends a 500 with the default status text. The error
// itself is never sent to the client.
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Logs the code at the given level and sends the status with its default text.
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Logs the code and message at the given level and sends the status with the
// formatted message.
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
