// Package transfer performs a single HTTP PUT attempt of a spooled artifact
// against a pre-signed put URL.
//
// One Attempt streams the spool file as the request body, sends the caller
// headers plus the computed content length, and inspects only the response
// status: exactly 200 is success, anything else is a transfer failure
// carrying the code. The response body is drained without buffering so
// keep-alive connections can be reused with bounded memory.
//
// Every attempt is bounded by the transport's per-attempt timeout; exceeding
// it is classified like a network failure and absorbed by the retry
// controller. Spool re-open or read errors during an attempt are transfer
// failures too — materialization already succeeded, so they remain
// retryable.
package transfer
