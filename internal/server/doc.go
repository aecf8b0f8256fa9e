// Package server exposes the permission engine over HTTP.
//
// Three surfaces share one chi router:
//
//   - POST /hook/{pretooluse,sessionstart,stop} mirror the stdin hook
//     boundary for agents that prefer HTTP.
//   - GET /approvals and POST /approvals/{id} let an operator see and
//     answer pending approval requests when the server owns the
//     approval channel.
//   - GET /sessions, GET /sessions/abandoned, and GET /events serve
//     dashboards.
//
// The server holds no state of its own; everything lives in the hook
// orchestrator, the session tracker, and the pending approval registry
// it is constructed with.
package server
