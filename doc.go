// Package auth is the client-side session and authorization layer of the
// Rozna Comarker application. It keeps a single source of truth for "who is
// logged in, with what role, and is the credential still valid" by
// reconciling a fast synchronous source (the durable credential store)
// against a slower asynchronous one (the session state stream).
//
// Session lifecycle:
//   - SessionService is the only writer. Register, Login, and
//     ExchangeProviderCredential perform a backend exchange and, on success,
//     persist the credential and publish the new session as one unit. SignOut
//     clears both and always succeeds locally, even when the backend is
//     unreachable.
//   - SessionStream broadcasts the latest Session to any number of
//     subscribers and replays the most recent value immediately on subscribe,
//     so a reader always sees a self-consistent snapshot.
//
// Route authorization:
//   - Guard exposes the two predicates IsAuthenticated and HasRole. Both wait
//     on the stream for a bounded time and fall back to the synchronous store
//     check, so a slow or silent upstream never hangs navigation and a page
//     reload with a fresh durable credential is not bounced to login.
//
// Storage backends live under store/, the Google sign-in capability under
// provider/google, and Fiber route middleware under middleware/guard.
package auth
