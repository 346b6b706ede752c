package types

// ContextUserKey is where the auth middleware stashes the resolved user
// on the gin context.
const ContextUserKey = "user"
