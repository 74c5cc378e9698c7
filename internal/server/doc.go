// Package server exposes academic calendars over HTTP.
//
// Routes:
//
//	GET /api/calendars                       calendar index as JSON
//	GET /api/entries?calendar_path=<path>    extracted entries as JSON
//	GET /api/generate?calendar_path=<path>   iCalendar download
//	GET /health                              liveness
//	GET /debug/metrics                       in-process counters and timings
//
// The same handler backs the long-running `ewucal serve` process and the AWS
// Lambda function behind API Gateway.
package server
