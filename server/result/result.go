// Package result contains the JSON response envelope pegserver's
// handlers build their responses with: every handler builds a Result
// rather than writing to the http.ResponseWriter itself, so every
// response is written (WriteResponse) and logged (Log) the same way.
package result

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// Result is a prepared HTTP response: a status code, a JSON body, and an
// internal message destined for the log rather than the client.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
}

// OK wraps respObj in an HTTP-200 Result.
func OK(respObj interface{}) Result {
	return Result{Status: http.StatusOK, resp: respObj, InternalMsg: "OK"}
}

// Created wraps respObj in an HTTP-201 Result.
func Created(respObj interface{}) Result {
	return Result{Status: http.StatusCreated, resp: respObj, InternalMsg: "created"}
}

// NotFound returns an HTTP-404 Result.
func NotFound() Result {
	return Err(http.StatusNotFound, "the requested resource was not found", "not found")
}

// BadRequest returns an HTTP-400 Result with userMsg shown to the caller.
func BadRequest(userMsg string, internalMsg string) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg)
}

// Unauthorized returns an HTTP-401 Result.
func Unauthorized(internalMsg string) Result {
	return Err(http.StatusUnauthorized, "you are not authorized to do that", internalMsg)
}

// InternalServerError returns an HTTP-500 Result. internalMsg is never
// shown to the caller.
func InternalServerError(internalMsg string) Result {
	return Err(http.StatusInternalServerError, "an internal server error occurred", internalMsg)
}

// Err builds a Result carrying userMsg in its JSON body and internalMsg
// for the log only.
func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: internalMsg,
		resp:        ErrorBody{Error: userMsg, Status: status},
	}
}

// ErrWithBody builds a Result like Err, but marshals body instead of the
// standard ErrorBody shape -- for failures that need to carry more than a
// single message, such as a parse failure's rule path and index.
func ErrWithBody(status int, body interface{}, internalMsg string) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: internalMsg,
		resp:        body,
	}
}

// WriteResponse marshals and writes r to w. requestID, if non-empty, is
// stamped onto an error body and echoed as a response header.
func (r Result) WriteResponse(w http.ResponseWriter, requestID string) {
	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
		if eb, ok := r.resp.(ErrorBody); ok {
			eb.RequestID = requestID
			r.resp = eb
		}
	}

	body, err := json.Marshal(r.resp)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.Status)
	w.Write(body)
}

// Log writes a one-line summary of r to the standard logger, tagged with
// requestID so it can be correlated with the response the client saw.
func (r Result) Log(requestID string, req *http.Request) {
	level := "INFO"
	if r.IsErr {
		level = "ERROR"
	}
	log.Printf("%s [%s] %d %s %s: %s", level, requestID, r.Status, req.Method, req.URL.Path, r.InternalMsg)
}
