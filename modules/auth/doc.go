// Package auth is the flow controller behind the three public screens:
// login, registration, and password recovery.
//
// The controller carries no rendering. Each operation takes a request struct
// with the screen's field values and returns a Result with a localized,
// user-facing notice; the host front-end binds those to whatever widgets it
// has. Successful login and registration hand the issued token to the
// session manager and navigate to the protected route through the shared
// Navigator, so the controller is the only place that sequence lives.
//
// A single in-flight guard covers all three operations, mirroring a disabled
// submit button. Concurrent calls while one is running return a zero Result.
package auth
