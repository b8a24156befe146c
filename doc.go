// Package auth is a credential and authorization core: stateless JWT
// sessions, an account registry and a role based permission engine.
//
// Components:
//   - TokenService signs and parses HS256 tokens tagged access or refresh.
//     A token consumed by the wrong kind of operation is rejected even when
//     its signature and expiry are fine.
//   - AccountRegistry owns user records keyed by email. Registration, profile
//     updates and soft deletes are serialized on the registry; emails of
//     deleted accounts stay taken.
//   - SessionAuthority logs users in and resolves presented tokens back to
//     live accounts, so a deleted account loses access before its tokens
//     expire.
//   - PermissionEngine holds the (role, resource, action) grant set. Roles,
//     resources and actions are closed enumerations (see Domain).
//   - AccessGate resolves the principal and then checks the grant.
//
// Service binds the above into the register, login, refresh, me and admin
// permission operations a transport exposes. Errors are go-errors values
// with fixed status codes; use StatusCode at the boundary.
//
// Storage is pluggable through UserStore and GrantStore. The package ships
// in memory stores; the repository package provides Bun backed ones.
package auth
