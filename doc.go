// Package panel is the server-rendered account and session layer of the
// Beacon file sharing service. It sits in front of the Beacon REST backend
// and owns the browser-facing flows: login, registration, profile and
// security settings, file management, and the admin surfaces.
//
// Sessions:
//   - The backend issues a correlated cookie pair (an opaque token plus the
//     user id). The panel never mints or mutates either value; it relays the
//     backend's Set-Cookie headers verbatim and forwards the pair on every
//     authenticated call. A partial or unparsable pair is treated exactly
//     like no session at all.
//
// Forms:
//   - Every mutating form runs through the idle/submitting/error machine in
//     Form. Recoverable failures map stable taxonomy codes to fixed copy;
//     anything outside an endpoint's contract renders a generic message and
//     is reported as a fault.
//
// Authorization:
//   - Only an unauthenticated failure redirects to login. A privilege
//     failure renders in place, and the admin flag resolved by RoleResolver
//     drives navigation only; the backend authorizes every privileged call
//     itself.
package panel
