package common

type contextKey string

// ProfileContextKey carries the decoy profile resolved by the headers
// middleware so the trap handlers skip a second registry lookup.
const ProfileContextKey contextKey = "decoy_profile"
